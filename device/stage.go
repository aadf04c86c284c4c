// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"fmt"
	"unsafe"

	"github.com/devblok/shaderstage/core"
	vk "github.com/devblok/vulkan"
)

// StageOptions are applied to every create info
type StageOptions struct {
	// Next is set as pNext of every stage create info
	Next unsafe.Pointer

	// Specialization sets constant values of every stage, nil leaves them
	Specialization *vk.SpecializationInfo
}

// StageBit maps a shader type onto its Vulkan stage bit
func StageBit(shaderType core.ShaderType) (vk.ShaderStageFlagBits, error) {
	switch shaderType {
	case core.VertexShaderType:
		return vk.ShaderStageVertexBit, nil
	case core.FragmentShaderType:
		return vk.ShaderStageFragmentBit, nil
	default:
		return 0, fmt.Errorf("unsupported shader type %s", shaderType)
	}
}

// PipelineShaderStages converts descriptors into create infos ready
// to be used as PStages of a vk.GraphicsPipelineCreateInfo.
// Modules must have been created by a Vulkan device.
func PipelineShaderStages(stages []core.StageDescriptor, opts StageOptions) ([]vk.PipelineShaderStageCreateInfo, error) {
	var specialization []vk.SpecializationInfo
	if opts.Specialization != nil {
		specialization = []vk.SpecializationInfo{*opts.Specialization}
	}

	infos := make([]vk.PipelineShaderStageCreateInfo, len(stages))
	for idx, stage := range stages {
		bit, err := StageBit(stage.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", stage.Path, err)
		}

		module, ok := stage.Module.(vk.ShaderModule)
		if !ok {
			return nil, fmt.Errorf("%s: failed to assert shader module to it's original type", stage.Path)
		}

		entryPoint := stage.EntryPoint
		if entryPoint == "" {
			entryPoint = core.DefaultEntryPoint
		}

		infos[idx] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			PNext:  opts.Next,
			Flags:  vk.PipelineShaderStageCreateFlags(stage.Flags),
			Stage:  bit,
			Module: module,
			PName:  safeString(entryPoint),

			PSpecializationInfo: specialization,
		}
	}
	return infos, nil
}
