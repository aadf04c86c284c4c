// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device_test

import (
	"testing"
	"unsafe"

	"github.com/devblok/shaderstage/core"
	"github.com/devblok/shaderstage/device"
	vk "github.com/devblok/vulkan"
	qt "github.com/frankban/quicktest"
)

func TestStageBit(t *testing.T) {
	c := qt.New(t)

	bit, err := device.StageBit(core.VertexShaderType)
	c.Assert(err, qt.IsNil)
	c.Assert(bit, qt.Equals, vk.ShaderStageVertexBit)

	bit, err = device.StageBit(core.FragmentShaderType)
	c.Assert(err, qt.IsNil)
	c.Assert(bit, qt.Equals, vk.ShaderStageFragmentBit)

	_, err = device.StageBit(core.UnknownShaderType)
	c.Assert(err, qt.ErrorMatches, "unsupported shader type unknown")
}

func TestPipelineShaderStages(t *testing.T) {
	c := qt.New(t)

	var module vk.ShaderModule
	stages := []core.StageDescriptor{{
		Name:       "sky.vert.spv",
		Path:       "shaders/sky.vert.spv",
		Type:       core.VertexShaderType,
		Module:     module,
		EntryPoint: "main",
		Flags:      3,
	}, {
		Name:   "sky.fs",
		Path:   "shaders/sky.fs",
		Type:   core.FragmentShaderType,
		Module: module,
		Flags:  3,
	}}

	infos, err := device.PipelineShaderStages(stages, device.StageOptions{})
	c.Assert(err, qt.IsNil)
	c.Assert(infos, qt.HasLen, 2)

	c.Assert(infos[0].SType, qt.Equals, vk.StructureTypePipelineShaderStageCreateInfo)
	c.Assert(infos[0].Stage, qt.Equals, vk.ShaderStageVertexBit)
	c.Assert(infos[0].PName, qt.Equals, "main\x00")
	c.Assert(infos[0].Flags, qt.Equals, vk.PipelineShaderStageCreateFlags(3))

	c.Assert(infos[1].Stage, qt.Equals, vk.ShaderStageFragmentBit)
	c.Assert(infos[1].PName, qt.Equals, "main\x00")
	c.Assert(infos[1].Flags, qt.Equals, vk.PipelineShaderStageCreateFlags(3))

	c.Assert(infos[0].PSpecializationInfo, qt.IsNil)
	c.Assert(infos[1].PSpecializationInfo, qt.IsNil)
}

func TestPipelineShaderStagesSpecialization(t *testing.T) {
	c := qt.New(t)

	samples := uint32(4)
	spec := &vk.SpecializationInfo{
		MapEntryCount: 1,
		PMapEntries: []vk.SpecializationMapEntry{{
			ConstantID: 7,
			Size:       4,
		}},
		DataSize: 4,
		PData:    unsafe.Pointer(&samples),
	}

	var module vk.ShaderModule
	infos, err := device.PipelineShaderStages([]core.StageDescriptor{
		{Path: "a.vs", Type: core.VertexShaderType, Module: module},
		{Path: "a.fs", Type: core.FragmentShaderType, Module: module},
	}, device.StageOptions{Specialization: spec})
	c.Assert(err, qt.IsNil)
	c.Assert(infos, qt.HasLen, 2)

	for _, info := range infos {
		c.Assert(info.PSpecializationInfo, qt.HasLen, 1)
		got := info.PSpecializationInfo[0]
		c.Assert(got.MapEntryCount, qt.Equals, uint32(1))
		c.Assert(got.DataSize, qt.Equals, uint(4))
		c.Assert(got.PData, qt.Equals, unsafe.Pointer(&samples))
		c.Assert(got.PMapEntries, qt.HasLen, 1)
		c.Assert(got.PMapEntries[0].ConstantID, qt.Equals, uint32(7))
	}
}

func TestPipelineShaderStagesForeignModule(t *testing.T) {
	c := qt.New(t)

	_, err := device.PipelineShaderStages([]core.StageDescriptor{{
		Path:   "shaders/a.vs",
		Type:   core.VertexShaderType,
		Module: 42,
	}}, device.StageOptions{})
	c.Assert(err, qt.ErrorMatches, "shaders/a.vs: failed to assert shader module to it's original type")
}
