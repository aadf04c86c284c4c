// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"os"
)

// package errors
var (
	ErrIO     = errors.New("shader source io failed")
	ErrDevice = errors.New("shader module creation failed")
)

// IOError is returned when a source can't be listed or a file can't be read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	err := e.Err
	// the path is already part of the message
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, err)
}

// Unwrap returns the underlying error
func (e *IOError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) hold
func (e *IOError) Is(target error) bool { return target == ErrIO }

// DeviceError is returned when the device rejects shader code.
type DeviceError struct {
	Path string
	Type ShaderType
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("create %s shader module %s: %s", e.Type, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *DeviceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDevice) hold
func (e *DeviceError) Is(target error) bool { return target == ErrDevice }
