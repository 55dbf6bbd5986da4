// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
)

// The following constants mirror the subset of cuda.h's texture-reference
// enums this backend needs to synthesize a texture object per image
// argument, grounded on original_source/src/cuda/cuda_function.cpp.
const (
	cuResourceTypePitch2D int32 = 3

	cuAddressModeClamp int32 = 1

	cuFilterModePoint  int32 = 0
	cuFilterModeLinear int32 = 1

	cuFormatUnsignedInt8  int32 = 0x01
	cuFormatUnsignedInt16 int32 = 0x02
	cuFormatSignedInt8    int32 = 0x08
	cuFormatSignedInt16   int32 = 0x09
	cuFormatHalf          int32 = 0x10
	cuFormatFloat         int32 = 0x20
)

// cudaResourceDescPitch2D mirrors CUDA_RESOURCE_DESC laid out for its
// pitch2D union member: resType, then the union (sized to the ABI's
// 32-int reserved variant so the struct's total size matches the real
// header regardless of which member is populated), then flags.
type cudaResourceDescPitch2D struct {
	resType      int32
	_            int32
	devPtr       uint64
	format       int32
	numChannels  uint32
	width        uint64
	height       uint64
	pitchInBytes uint64
	_            [88]byte
	flags        uint32
	_            [4]byte
}

// cudaTextureDesc mirrors CUDA_TEXTURE_DESC.
type cudaTextureDesc struct {
	addressMode          [3]int32
	filterMode           int32
	flags                uint32
	maxAnisotropy        uint32
	mipmapFilterMode     int32
	mipmapLevelBias      float32
	minMipmapLevelClamp  float32
	maxMipmapLevelClamp  float32
	borderColor          [4]float32
	reserved             [12]int32
}

func cudaArrayFormat(t backend.DataType) (int32, error) {
	switch t {
	case backend.UInt8:
		return cuFormatUnsignedInt8, nil
	case backend.Int8:
		return cuFormatSignedInt8, nil
	case backend.UInt16:
		return cuFormatUnsignedInt16, nil
	case backend.Int16:
		return cuFormatSignedInt16, nil
	case backend.Float16:
		return cuFormatHalf, nil
	case backend.Float32:
		return cuFormatFloat, nil
	default:
		return 0, unsupported("launch: image data type has no CUDA texture format")
	}
}

// createTexObject synthesizes a CUtexObject over img's backing pitched
// allocation: address mode clamp, filter linear, non-normalized
// coordinates, matching original_source/src/cuda/cuda_function.cpp's
// resource/texture descriptor construction. Per spec.md §4.7/§9, the
// returned handle's lifetime is the caller's (Launch's) frame — the
// caller destroys it once cuLaunchKernel has been issued.
func createTexObject(img *Image) (uint64, error) {
	format, err := cudaArrayFormat(img.descr.Type)
	if err != nil {
		return 0, err
	}

	var resDesc cudaResourceDescPitch2D
	resDesc.resType = cuResourceTypePitch2D
	resDesc.devPtr = uint64(img.buf.ptr)
	resDesc.format = format
	resDesc.numChannels = uint32(img.descr.Channels)
	resDesc.width = uint64(img.descr.Size.Width)
	resDesc.height = uint64(img.descr.Size.Height)
	resDesc.pitchInBytes = uint64(img.descr.Stride.Row)

	var texDesc cudaTextureDesc
	texDesc.addressMode[0] = cuAddressModeClamp
	texDesc.addressMode[1] = cuAddressModeClamp
	texDesc.filterMode = cuFilterModeLinear

	var texObj uint64
	if err := cuTexObjectCreate(&texObj, unsafe.Pointer(&resDesc), unsafe.Pointer(&texDesc), nil).ok(); err != nil {
		return 0, native("texObjectCreate", err.(result))
	}
	return texObj, nil
}
