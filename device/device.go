// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device provides the Vulkan side of shader stage resolution:
// a core.Device backed by a vk.Device and conversion of stage
// descriptors into pipeline shader stage create infos.
package device

import vk "github.com/devblok/vulkan"

// DefaultVulkanApplicationInfo describes the headless application
var DefaultVulkanApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("shaderstage"),
	PEngineName:        safeString("shaderstage"),
}

// InstanceConfiguration configures the Vulkan instance
type InstanceConfiguration struct {
	// DebugMode enables the validation layer
	DebugMode  bool
	Extensions []string
	Layers     []string
}

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        uint64
}
