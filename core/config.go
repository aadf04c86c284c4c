// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/sirupsen/logrus"

// DefaultEntryPoint is the shader function every stage starts in
const DefaultEntryPoint = "main"

// Configuration defines how a shader directory is resolved.
// Use NewConfiguration and the With methods, each of them
// returns an updated copy and leaves the receiver untouched.
type Configuration struct {
	// Directory holds the compiled shaders, it's not walked recursively
	Directory string

	// EntryPoint is the function name used for every stage
	EntryPoint string

	// StageFlags are applied to every produced descriptor
	StageFlags StageFlags

	// ModuleFlags are passed along when creating every module
	ModuleFlags ModuleFlags

	// Logger receives debug output while resolving.
	// Nothing is logged when it's nil.
	Logger logrus.FieldLogger
}

// NewConfiguration creates a configuration for the given directory
func NewConfiguration(dir string) Configuration {
	return Configuration{
		Directory:  dir,
		EntryPoint: DefaultEntryPoint,
	}
}

// WithStageFlags sets the flags every stage descriptor carries
func (c Configuration) WithStageFlags(flags StageFlags) Configuration {
	c.StageFlags = flags
	return c
}

// WithModuleFlags sets the shader module creation flags
func (c Configuration) WithModuleFlags(flags ModuleFlags) Configuration {
	c.ModuleFlags = flags
	return c
}

// WithEntryPoint sets the shader entry point name
func (c Configuration) WithEntryPoint(name string) Configuration {
	c.EntryPoint = name
	return c
}

// WithLogger sets the logger used during resolution
func (c Configuration) WithLogger(logger logrus.FieldLogger) Configuration {
	c.Logger = logger
	return c
}

func (c Configuration) entryPoint() string {
	if c.EntryPoint == "" {
		return DefaultEntryPoint
	}
	return c.EntryPoint
}

func (c Configuration) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}
