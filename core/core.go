// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core resolves directories of compiled shaders into pipeline
// shader stage descriptors. Stage types are inferred from file name
// suffixes, every recognised file is turned into a shader module on the
// given Device and wrapped into a StageDescriptor.
package core

// Device creates and destroys shader modules. Handles are opaque to this
// package, the implementation decides what they are.
type Device interface {
	// CreateShaderModule submits compiled shader code to the device
	// and returns the resulting module handle
	CreateShaderModule(code []byte, flags ModuleFlags) (interface{}, error)

	// DestroyShaderModule releases a module returned by CreateShaderModule
	DestroyShaderModule(module interface{})
}

// Source lists and reads compiled shader files from one flat location.
type Source interface {
	// Entries returns file names in the order the underlying
	// storage lists them. Nested entries are not included.
	Entries() ([]string, error)

	// ReadFile returns the entire contents of the named entry
	ReadFile(name string) ([]byte, error)

	// String describes the source for errors and logs
	String() string
}

// StageFlags is a bitmask of pipeline shader stage creation flags.
type StageFlags uint32

// ModuleFlags is a bitmask of shader module creation flags.
type ModuleFlags uint32

// StageDescriptor binds a shader module to the pipeline stage it runs in.
type StageDescriptor struct {
	// Name is the entry name in the source the module was created from
	Name string

	// Path locates the file, it's only informative
	Path string

	Type       ShaderType
	Module     interface{}
	EntryPoint string
	Flags      StageFlags
}

// Match is a recognised shader file that has not been loaded yet.
type Match struct {
	Name string
	Type ShaderType
}
