// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/devblok/shaderstage/core"
	vk "github.com/devblok/vulkan"
)

// NewVulkanInstance creates a Vulkan instance without any window system
func NewVulkanInstance(appInfo *vk.ApplicationInfo, cfg InstanceConfiguration) (*Instance, error) {
	if cfg.DebugMode {
		cfg.Layers = append(cfg.Layers, "VK_LAYER_KHRONOS_validation")
	}

	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.New("vk.InstanceProcAddr(): " + err.Error())
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, errors.New("vk.CreateInstance(): " + err.Error())
	}
	vk.InitInstance(instance)

	physicalDevices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}

	return &Instance{
		instance:         instance,
		availableDevices: physicalDevices,
	}, nil
}

// Instance is a Vulkan API instance
type Instance struct {
	instance         vk.Instance
	availableDevices []vk.PhysicalDevice
}

// enumerate performs the count-then-fill call pair most
// vkEnumerate* functions require.
func enumerate[T any](call func(count *uint32, out []T) vk.Result) ([]T, error) {
	var count uint32
	if err := vk.Error(call(&count, nil)); err != nil {
		return nil, err
	}
	out := make([]T, count)
	if err := vk.Error(call(&count, out)); err != nil {
		return nil, err
	}
	return out[:count], nil
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	devices, err := enumerate(func(count *uint32, out []vk.PhysicalDevice) vk.Result {
		return vk.EnumeratePhysicalDevices(instance, count, out)
	})
	if err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return devices, nil
}

// PhysicalDevicesInfo returns a struct for each physical device,
// devices that can't be queried completely are marked Invalid.
func (v *Instance) PhysicalDevicesInfo() []PhysicalDeviceInfo {
	pdi := make([]PhysicalDeviceInfo, len(v.availableDevices))
	for i, pd := range v.availableDevices {
		pdi[i] = describeDevice(pd)
	}
	return pdi
}

func describeDevice(pd vk.PhysicalDevice) PhysicalDeviceInfo {
	var info PhysicalDeviceInfo

	extensions, err := enumerate(func(count *uint32, out []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateDeviceExtensionProperties(pd, "", count, out)
	})
	if err != nil {
		info.Invalid = true
	}
	for _, ext := range extensions {
		ext.Deref()
		info.Extensions = append(info.Extensions, vk.ToString(ext.ExtensionName[:]))
	}

	layers, err := enumerate(func(count *uint32, out []vk.LayerProperties) vk.Result {
		return vk.EnumerateDeviceLayerProperties(pd, count, out)
	})
	if err != nil {
		info.Invalid = true
	}
	for _, layer := range layers {
		layer.Deref()
		info.Layers = append(info.Layers, vk.ToString(layer.LayerName[:]))
	}

	var memory vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memory)
	memory.Deref()
	for _, heap := range memory.MemoryHeaps[:memory.MemoryHeapCount] {
		heap.Deref()
		info.Memory += uint64(heap.Size)
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()
	info.ID = int(props.DeviceID)
	info.VendorID = int(props.VendorID)
	info.Name = vk.ToString(props.DeviceName[:])
	info.DriverVersion = int(props.DriverVersion)
	return info
}

// Destroy destroys the instance, devices created from it must be destroyed first
func (v *Instance) Destroy() {
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
}

// NewVulkan creates a logical device with a single graphics queue
// on the physical device with the given index.
func NewVulkan(instance *Instance, index int) (*Vulkan, error) {
	if index < 0 || index >= len(instance.availableDevices) {
		return nil, fmt.Errorf("no physical device with index %d, %d available", index, len(instance.availableDevices))
	}
	physicalDevice := instance.availableDevices[index]

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &queueFamilyCount, queueFamilies)

	graphicsQueueIndex := -1
	for i := range queueFamilies {
		queueFamilies[i].Deref()
		if queueFamilies[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			graphicsQueueIndex = i
			break
		}
	}
	if graphicsQueueIndex < 0 {
		return nil, errors.New("vulkan error: could not find a queue family with graphics support")
	}

	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: uint32(graphicsQueueIndex),
		QueueCount:       1,
		PQueuePriorities: []float32{1},
	}}

	dci := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueInfos)),
		PQueueCreateInfos:    queueInfos,
	}

	var logicalDevice vk.Device
	if err := vk.Error(vk.CreateDevice(physicalDevice, &dci, nil, &logicalDevice)); err != nil {
		return nil, errors.New("vk.CreateDevice(): " + err.Error())
	}

	return &Vulkan{
		device: logicalDevice,
		owned:  true,
	}, nil
}

// Wrap uses a logical device created elsewhere. Destroy will
// not destroy a wrapped device.
func Wrap(device vk.Device) *Vulkan {
	return &Vulkan{device: device}
}

// Vulkan creates shader modules on a Vulkan logical device.
// It implements core.Device.
type Vulkan struct {
	// ModuleNext is set as pNext of every shader module create info
	ModuleNext unsafe.Pointer

	device vk.Device
	owned  bool
}

// Inner returns the underlying logical device
func (v *Vulkan) Inner() vk.Device {
	return v.device
}

// CreateShaderModule implements core.Device. Code that is obviously
// not SPIR-V is rejected before reaching the driver.
func (v *Vulkan) CreateShaderModule(code []byte, flags core.ModuleFlags) (interface{}, error) {
	if err := checkCode(code); err != nil {
		return nil, err
	}

	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		PNext:    v.ModuleNext,
		Flags:    vk.ShaderModuleCreateFlags(flags),
		CodeSize: uint(len(code)),
		PCode:    SliceUint32(code),
	}

	var module vk.ShaderModule
	if err := vk.Error(vk.CreateShaderModule(v.device, &smci, nil, &module)); err != nil {
		return nil, errors.New("vk.CreateShaderModule(): " + err.Error())
	}
	return module, nil
}

// DestroyShaderModule implements core.Device
func (v *Vulkan) DestroyShaderModule(module interface{}) {
	if sm, ok := module.(vk.ShaderModule); ok {
		vk.DestroyShaderModule(v.device, sm, nil)
	}
}

// Destroy destroys the logical device if it was created by NewVulkan
func (v *Vulkan) Destroy() {
	if v == nil || !v.owned {
		return
	}
	vk.DeviceWaitIdle(v.device)
	vk.DestroyDevice(v.device, nil)
}
