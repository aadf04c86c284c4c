// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"encoding/binary"
	"errors"
	"strings"
	"unsafe"
)

// spirvMagic is the first word of every little endian SPIR-V module
const spirvMagic = 0x07230203

// ErrBadCode is returned for data that can't be SPIR-V
var ErrBadCode = errors.New("shader code is not a SPIR-V module")

// checkCode rejects what vkCreateShaderModule must never see:
// empty code, a size that isn't a multiple of 4, or a wrong magic word.
func checkCode(code []byte) error {
	if len(code) < 4 || len(code)%4 != 0 {
		return ErrBadCode
	}
	if binary.LittleEndian.Uint32(code) != spirvMagic {
		return ErrBadCode
	}
	return nil
}

// SliceUint32 reslices bytes into a uint32, that is used
// to sumbit vulkan shaders for processing. Unaligned data is copied.
func SliceUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	ptr := unsafe.Pointer(&data[0])
	if uintptr(ptr)%unsafe.Alignof(uint32(0)) == 0 {
		return unsafe.Slice((*uint32)(ptr), len(data)/4)
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, safeString(s))
	}
	return safe
}
