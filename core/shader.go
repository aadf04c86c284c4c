// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strings"
)

// ShaderType represents the pipeline stage a shader is loaded for
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

var shaderTypeNames = map[ShaderType]string{
	VertexShaderType:   "vertex",
	FragmentShaderType: "fragment",
	UnknownShaderType:  "unknown",
}

// String implements fmt.Stringer
func (t ShaderType) String() string {
	if name, ok := shaderTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ShaderType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler
func (t ShaderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ShaderType) UnmarshalText(text []byte) error {
	for k, v := range shaderTypeNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown shader type %q", text)
}

// ShaderSuffix maps a file name suffix onto the stage it compiles for.
type ShaderSuffix struct {
	Suffix string
	Type   ShaderType
}

// shaderSuffixes is checked in order, the first suffix to match wins.
// GLSL output from glslangValidator comes first, then HLSL output.
var shaderSuffixes = []ShaderSuffix{
	{".vert.spv", VertexShaderType},
	{".frag.spv", FragmentShaderType},
	{".vs", VertexShaderType},
	{".fs", FragmentShaderType},
}

// ShaderSuffixes returns a copy of the suffix table in matching order
func ShaderSuffixes() []ShaderSuffix {
	return append([]ShaderSuffix(nil), shaderSuffixes...)
}

// ShaderTypeFromName infers the stage from a file name. Names that carry
// none of the known suffixes yield UnknownShaderType.
func ShaderTypeFromName(name string) ShaderType {
	for _, s := range shaderSuffixes {
		if strings.HasSuffix(name, s.Suffix) {
			return s.Type
		}
	}
	return UnknownShaderType
}

// shaderName strips the stage suffix, "sky.vert.spv" becomes "sky"
func shaderName(name string) string {
	for _, s := range shaderSuffixes {
		if strings.HasSuffix(name, s.Suffix) {
			return strings.TrimSuffix(name, s.Suffix)
		}
	}
	return name
}
