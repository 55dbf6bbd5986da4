// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import (
	"fmt"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/cache"
	"github.com/gmeeker/ghost/internal/glog"
)

// Device implements backend.DeviceImpl over the CUDA driver API, resolved
// at runtime with no cgo (see driver.go).
type Device struct {
	ordinal int32
	ctx     uintptr
	ownsCtx bool

	name          string
	smCount       int32
	computeMajor  int32
	computeMinor  int32
	totalMem      uint64
	driverVersion int32
	memPoolBytes  uint64

	defaultStream *Stream
}

var _ backend.DeviceImpl = (*Device)(nil)

// New opens CUDA device ordinal. If shared.Context is non-nil, the device
// adopts that context instead of creating its own (spec.md §4's
// shared-context adoption path); otherwise it creates and owns a primary
// context for the device, destroyed on Close.
func New(ordinal int32, shared backend.SharedContext) (*Device, error) {
	if err := initDriver(); err != nil {
		return nil, ioErr("open", err)
	}

	d := &Device{ordinal: ordinal}

	if shared.Context != nil {
		d.ctx = uintptr(shared.Context)
		d.ownsCtx = false
	} else {
		var ctx uintptr
		if err := cuCtxCreate(&ctx, 0, ordinal).ok(); err != nil {
			return nil, native("ctxCreate", err.(result))
		}
		d.ctx = ctx
		d.ownsCtx = true
	}
	if err := cuCtxSetCurrent(d.ctx).ok(); err != nil {
		return nil, native("ctxSetCurrent", err.(result))
	}

	d.loadProperties()

	if shared.Queue != nil {
		d.defaultStream = adoptStream(uintptr(shared.Queue))
	} else {
		s, err := newStream()
		if err != nil {
			return nil, err
		}
		d.defaultStream = s
	}

	glog.Debugf("cuda", "device %d (%s) opened, %d SMs", ordinal, d.name, d.smCount)
	return d, nil
}

func (d *Device) loadProperties() {
	var nameBuf [256]byte
	if cuDeviceGetName(&nameBuf[0], int32(len(nameBuf)), d.ordinal).ok() == nil {
		for i, b := range nameBuf {
			if b == 0 {
				d.name = string(nameBuf[:i])
				break
			}
		}
	}
	var v int32
	if cuDeviceGetAttribute(&v, attrMultiprocessorCount, d.ordinal).ok() == nil {
		d.smCount = v
	}
	if cuDeviceGetAttribute(&v, attrComputeCapabilityMajor, d.ordinal).ok() == nil {
		d.computeMajor = v
	}
	if cuDeviceGetAttribute(&v, attrComputeCapabilityMinor, d.ordinal).ok() == nil {
		d.computeMinor = v
	}
	var mem uint64
	if cuDeviceTotalMem(&mem, d.ordinal).ok() == nil {
		d.totalMem = mem
	}
	var ver int32
	if cuDriverGetVersion(&ver).ok() == nil {
		d.driverVersion = ver
	}
}

// Fingerprint implements backend.DeviceImpl. SubUnitCount is 1: this
// backend models a single CUDA device per Device value, matching
// spec.md's "sub-unit" glossary entry for single-GPU backends.
func (d *Device) Fingerprint() cache.Fingerprint {
	return cache.Fingerprint{
		Vendor:        "NVIDIA",
		Name:          d.name,
		DriverVersion: fmt.Sprintf("%d", d.driverVersion),
		SubUnitCount:  1,
	}
}

// LoadLibraryFromText links PTX source into a cubin via cuLink*, then loads
// the resulting module. The returned Library implements
// backend.CacheableLibrary so the ghost facade can persist the cubin.
func (d *Device) LoadLibraryFromText(text, options string) (backend.LibraryImpl, error) {
	return linkAndLoad(d, []byte(text), jitInputPTX)
}

// LoadLibraryFromData loads a pre-built cubin or fatbin directly: no link
// step, no cache population (the caller already holds the final artifact,
// e.g. from a cache hit or LoadLibraryFromFile).
func (d *Device) LoadLibraryFromData(data []byte, options string) (backend.LibraryImpl, error) {
	var mod uintptr
	if err := cuModuleLoadData(&mod, unsafe.Pointer(&data[0])).ok(); err != nil {
		return nil, native("moduleLoadData", err.(result))
	}
	return &Library{device: d, module: mod}, nil
}

// CreateStream creates a new CUDA stream.
func (d *Device) CreateStream() (backend.StreamImpl, error) {
	return newStream()
}

// DefaultStream returns the device's default stream.
func (d *Device) DefaultStream() backend.StreamImpl { return d.defaultStream }

// MemoryPoolSize and SetMemoryPoolSize are advisory: the CUDA driver API
// this backend resolves exposes no strict pool-limit primitive, only
// allocation hints (see DESIGN.md Open Question resolution).
func (d *Device) MemoryPoolSize() uint64         { return d.memPoolBytes }
func (d *Device) SetMemoryPoolSize(bytes uint64) { d.memPoolBytes = bytes }

// AllocateHostMemory pins bytes of host memory via cuMemHostAlloc so it can
// later back a mapped buffer.
func (d *Device) AllocateHostMemory(bytes uint64) (unsafe.Pointer, error) {
	var p unsafe.Pointer
	if err := cuMemHostAlloc(&p, bytes, 0).ok(); err != nil {
		return nil, native("memHostAlloc", err.(result))
	}
	return p, nil
}

// FreeHostMemory releases memory allocated by AllocateHostMemory.
func (d *Device) FreeHostMemory(ptr unsafe.Pointer) {
	cuMemFreeHost(ptr)
}

// AllocateBuffer allocates device memory via cuMemAlloc.
func (d *Device) AllocateBuffer(bytes uint64, access backend.Access) (backend.BufferImpl, error) {
	var dptr uintptr
	if err := cuMemAlloc(&dptr, bytes).ok(); err != nil {
		return nil, native("memAlloc", err.(result))
	}
	return &Buffer{device: d, ptr: dptr, size: bytes}, nil
}

// AllocateMappedBuffer allocates host-pinned memory and maps it into the
// device address space, so the same storage is addressable from both sides
// without an explicit copy.
func (d *Device) AllocateMappedBuffer(bytes uint64, access backend.Access) (backend.MappedBufferImpl, error) {
	host, err := d.AllocateHostMemory(bytes)
	if err != nil {
		return nil, err
	}
	var dptr uintptr
	if err := cuMemHostGetDevicePointer(&dptr, host, 0).ok(); err != nil {
		d.FreeHostMemory(host)
		return nil, native("memHostGetDevicePointer", err.(result))
	}
	return &MappedBuffer{
		Buffer: Buffer{device: d, ptr: dptr, size: bytes},
		host:   host,
	}, nil
}

// AllocateImage backs an image with a plain pitched device buffer. The
// texture object a kernel actually samples through is synthesized
// per-launch from this storage (see Function.Launch/createTexObject in
// function.go and texture.go) rather than held for the image's lifetime,
// matching spec.md §4.7's texture-object-per-launch marshalling.
func (d *Device) AllocateImage(descr backend.ImageDescription) (backend.ImageImpl, error) {
	buf, err := d.AllocateBuffer(uint64(descr.DataSize()), descr.Access)
	if err != nil {
		return nil, err
	}
	return &Image{descr: descr, buf: buf.(*Buffer)}, nil
}

// SharedImageFromBuffer aliases an existing device buffer under a new image
// descriptor.
func (d *Device) SharedImageFromBuffer(descr backend.ImageDescription, buf backend.BufferImpl) (backend.ImageImpl, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, unsupported("sharedImage: buffer from a different backend")
	}
	return &Image{descr: descr, buf: b}, nil
}

// SharedImageFromImage aliases an existing image's backing buffer under a
// new descriptor.
func (d *Device) SharedImageFromImage(descr backend.ImageDescription, img backend.ImageImpl) (backend.ImageImpl, error) {
	i, ok := img.(*Image)
	if !ok {
		return nil, unsupported("sharedImage: image from a different backend")
	}
	return &Image{descr: descr, buf: i.buf}, nil
}

// GetAttribute reports CUDA device properties.
func (d *Device) GetAttribute(id backend.DeviceAttributeID) attribute.Attribute {
	switch id {
	case backend.DeviceImplementation:
		return attribute.NewString("cuda")
	case backend.DeviceName:
		return attribute.NewString(d.name)
	case backend.DeviceVendor:
		return attribute.NewString("NVIDIA")
	case backend.DeviceDriverVersion:
		return attribute.NewString(fmt.Sprintf("%d", d.driverVersion))
	case backend.DeviceSubUnitCount:
		return attribute.NewInt32(d.smCount)
	case backend.DeviceUnifiedMemory:
		return attribute.NewBool(false)
	case backend.DeviceTotalMemory:
		return attribute.NewUInt64(d.totalMem)
	case backend.DeviceSupportsMappedBuffer:
		return attribute.NewBool(true)
	case backend.DeviceSupportsProgramConstants:
		return attribute.NewBool(false)
	default:
		return attribute.Attribute{}
	}
}

// Close destroys the default stream and, if this Device created its own
// context rather than adopting a shared one, destroys that too.
func (d *Device) Close() error {
	d.defaultStream.Close()
	if d.ownsCtx {
		cuCtxDestroy(d.ctx)
	}
	return nil
}
