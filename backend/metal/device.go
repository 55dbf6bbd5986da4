// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package metal

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/cache"
	"github.com/gmeeker/ghost/handle"
)

// Device implements backend.DeviceImpl over an MTLDevice.
type Device struct {
	h handle.Handle[unsafe.Pointer, objTraits]

	name       string
	maxBuffer  uint64
	unified    bool
	maxThreads uint32
	poolBytes  uint64

	defaultStream *Stream
}

var _ backend.DeviceImpl = (*Device)(nil)

// New opens the system default Metal device, or adopts shared.Device when
// provided (spec.md §4's shared-context path — Metal has no separate
// context object, so adoption is keyed on the device pointer itself).
func New(shared backend.SharedContext) (*Device, error) {
	d := &Device{}

	if shared.Device != nil {
		d.h = handle.WrapShared[unsafe.Pointer, objTraits](objTraits{}, shared.Device)
	} else {
		ptr := C.ghost_metal_create_device()
		if ptr == nil {
			return nil, unsupported("no Metal device available")
		}
		d.h = handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(ptr))
	}

	d.loadProperties()
	d.poolBytes = d.maxBuffer

	if shared.Queue != nil {
		d.defaultStream = adoptQueue(shared.Queue)
	} else {
		s, err := newStream(d.h.Get())
		if err != nil {
			return nil, err
		}
		d.defaultStream = s
	}
	return d, nil
}

func (d *Device) loadProperties() {
	dev := d.h.Get()
	if cname := C.ghost_metal_device_name(dev); cname != nil {
		d.name = C.GoString(cname)
	}
	d.maxBuffer = uint64(C.ghost_metal_device_max_buffer_length(dev))
	d.unified = C.ghost_metal_device_has_unified_memory(dev) != 0
	d.maxThreads = uint32(C.ghost_metal_device_max_threads_per_group(dev))
}

// Fingerprint implements backend.DeviceImpl.
func (d *Device) Fingerprint() cache.Fingerprint {
	return cache.Fingerprint{
		Vendor:       "Apple",
		Name:         d.name,
		SubUnitCount: 1,
	}
}

// LoadLibraryFromText compiles Metal Shading Language source via
// newLibraryWithSource, the runtime-compiler path.
func (d *Device) LoadLibraryFromText(text, options string) (backend.LibraryImpl, error) {
	csrc := cString(text)
	defer freeCString(csrc)

	var cerr *C.char
	lib := C.ghost_metal_create_library_source(d.h.Get(), csrc, &cerr)
	if lib == nil {
		return nil, takeError("loadLibraryFromText", cerr)
	}
	return &Library{device: d, h: handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(lib)), source: text}, nil
}

// LoadLibraryFromData loads a precompiled Metal library archive (.metallib)
// via newLibraryWithData.
func (d *Device) LoadLibraryFromData(data []byte, options string) (backend.LibraryImpl, error) {
	if len(data) == 0 {
		return nil, unsupported("loadLibraryFromData: empty archive")
	}
	var cerr *C.char
	lib := C.ghost_metal_create_library_data(d.h.Get(), unsafe.Pointer(&data[0]), C.size_t(len(data)), &cerr)
	if lib == nil {
		return nil, takeError("loadLibraryFromData", cerr)
	}
	return &Library{device: d, h: handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(lib))}, nil
}

// CreateStream creates a new Metal command queue.
func (d *Device) CreateStream() (backend.StreamImpl, error) {
	return newStream(d.h.Get())
}

// DefaultStream returns the device's default command queue.
func (d *Device) DefaultStream() backend.StreamImpl { return d.defaultStream }

// MemoryPoolSize/SetMemoryPoolSize are advisory — Metal's MTLHeap gives an
// allocation-pool hint, not a strict limit this backend enforces.
func (d *Device) MemoryPoolSize() uint64         { return d.poolBytes }
func (d *Device) SetMemoryPoolSize(bytes uint64) { d.poolBytes = bytes }

// AllocateHostMemory is unsupported standalone on Metal: on Apple silicon
// every buffer is already host-visible via MTLResourceStorageModeShared,
// so there is no separate pinned-host-allocation primitive to expose.
func (d *Device) AllocateHostMemory(bytes uint64) (unsafe.Pointer, error) {
	return nil, unsupported("allocateHostMemory")
}

func (d *Device) FreeHostMemory(ptr unsafe.Pointer) {}

// AllocateBuffer allocates a shared-storage-mode MTLBuffer.
func (d *Device) AllocateBuffer(bytes uint64, access backend.Access) (backend.BufferImpl, error) {
	ptr := C.ghost_metal_create_buffer(d.h.Get(), C.size_t(bytes), 1)
	if ptr == nil {
		return nil, unsupported("allocateBuffer: Metal buffer creation failed")
	}
	return &Buffer{device: d, h: handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(ptr)), size: bytes}, nil
}

// AllocateMappedBuffer on Metal is identical to AllocateBuffer: a
// shared-storage buffer is always CPU-addressable, so Map just returns its
// contents pointer without a separate blit. See buffer.go.
func (d *Device) AllocateMappedBuffer(bytes uint64, access backend.Access) (backend.MappedBufferImpl, error) {
	buf, err := d.AllocateBuffer(bytes, access)
	if err != nil {
		return nil, err
	}
	return &MappedBuffer{Buffer: *buf.(*Buffer)}, nil
}

// AllocateImage backs an image with a plain shared buffer; this backend
// does not stand up MTLTexture (see DESIGN.md, same simplification as the
// CUDA/OpenCL backends).
func (d *Device) AllocateImage(descr backend.ImageDescription) (backend.ImageImpl, error) {
	buf, err := d.AllocateBuffer(uint64(descr.DataSize()), descr.Access)
	if err != nil {
		return nil, err
	}
	return &Image{descr: descr, buf: buf.(*Buffer)}, nil
}

func (d *Device) SharedImageFromBuffer(descr backend.ImageDescription, buf backend.BufferImpl) (backend.ImageImpl, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, unsupported("sharedImage: buffer from a different backend")
	}
	return &Image{descr: descr, buf: b}, nil
}

func (d *Device) SharedImageFromImage(descr backend.ImageDescription, img backend.ImageImpl) (backend.ImageImpl, error) {
	i, ok := img.(*Image)
	if !ok {
		return nil, unsupported("sharedImage: image from a different backend")
	}
	return &Image{descr: descr, buf: i.buf}, nil
}

// GetAttribute reports Metal device properties.
func (d *Device) GetAttribute(id backend.DeviceAttributeID) attribute.Attribute {
	switch id {
	case backend.DeviceImplementation:
		return attribute.NewString("metal")
	case backend.DeviceName:
		return attribute.NewString(d.name)
	case backend.DeviceVendor:
		return attribute.NewString("Apple")
	case backend.DeviceSubUnitCount:
		return attribute.NewInt32(1)
	case backend.DeviceUnifiedMemory:
		return attribute.NewBool(d.unified)
	case backend.DeviceMaxThreadsPerGroup:
		return attribute.NewInt32(int32(d.maxThreads))
	case backend.DeviceSupportsMappedBuffer:
		return attribute.NewBool(true)
	case backend.DeviceSupportsProgramConstants:
		return attribute.NewBool(true)
	default:
		return attribute.Attribute{}
	}
}

// Close releases the default stream and the device handle.
func (d *Device) Close() error {
	d.defaultStream.Close()
	d.h.Reset()
	return nil
}
