// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the CPU backend: a goroutine thread pool emulating
// grid-style kernel launch, host-memory buffers, and shared-library kernel
// loading. See spec.md §4.6.
package cpu

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/cache"
	"github.com/gmeeker/ghost/internal/glog"
)

// Device implements backend.DeviceImpl for the host CPU.
type Device struct {
	cores  int
	memory uint64 // advisory pool-size hint, see spec.md §9 open question (c).

	defaultStream *Stream
}

var _ backend.DeviceImpl = (*Device)(nil)
var _ backend.FileLoader = (*Device)(nil)

// New returns a CPU device. cores <= 0 means auto-detect via
// runtime.NumCPU(), the idiomatic Go equivalent of spec.md §4.6's per-OS
// core-count detection ladder (Windows system info / Linux get_nprocs /
// Apple hw.activecpu / POSIX sysconf) — the Go runtime already performs
// that OS dispatch internally.
func New(cores int) *Device {
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	if cores < 1 {
		cores = 1
	}
	d := &Device{cores: cores}
	d.defaultStream = newStream(cores)
	glog.Debugf("cpu", "device opened with %d cores", cores)
	return d
}

// Fingerprint implements backend.DeviceImpl.
func (d *Device) Fingerprint() cache.Fingerprint {
	return cache.Fingerprint{
		Vendor:       "CPU",
		Name:         fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SubUnitCount: 1,
	}
}

// LoadLibraryFromText is unsupported on the CPU backend: there is no source
// compiler. See spec.md §4.6 "Unsupported".
func (d *Device) LoadLibraryFromText(text, options string) (backend.LibraryImpl, error) {
	return nil, unsupported("loadLibraryFromText")
}

// LoadLibraryFromData is unsupported on the CPU backend: kernels load only
// from a native shared library.
func (d *Device) LoadLibraryFromData(data []byte, options string) (backend.LibraryImpl, error) {
	return nil, unsupported("loadLibraryFromData")
}

// LoadLibraryFromFile dlopens a native shared library whose exported
// symbols follow the KernelFunc ABI.
func (d *Device) LoadLibraryFromFile(path string) (backend.LibraryImpl, error) {
	return openLibrary(path, d.cores)
}

// CreateStream returns a new Stream with its own thread pool, sized to the
// device's core count.
func (d *Device) CreateStream() (backend.StreamImpl, error) {
	return newStream(d.cores), nil
}

// DefaultStream returns the device's shared default stream.
func (d *Device) DefaultStream() backend.StreamImpl {
	return d.defaultStream
}

// MemoryPoolSize and SetMemoryPoolSize are advisory on CPU: the backend
// simply stores the integer. See spec.md §9 open question (c).
func (d *Device) MemoryPoolSize() uint64       { return d.memory }
func (d *Device) SetMemoryPoolSize(bytes uint64) { d.memory = bytes }

// AllocateHostMemory allocates plain Go-managed memory and returns its
// address. Buffers allocated this way are kept alive by the caller; there
// is no separate native allocator to consult on CPU.
func (d *Device) AllocateHostMemory(bytes uint64) (unsafe.Pointer, error) {
	buf := make([]byte, bytes)
	if len(buf) == 0 {
		return nil, nil
	}
	return unsafe.Pointer(&buf[0]), nil
}

// FreeHostMemory is a no-op: Go's GC owns memory allocated by
// AllocateHostMemory.
func (d *Device) FreeHostMemory(ptr unsafe.Pointer) {}

// AllocateBuffer allocates a raw host buffer.
func (d *Device) AllocateBuffer(bytes uint64, access backend.Access) (backend.BufferImpl, error) {
	return newBuffer(bytes), nil
}

// AllocateMappedBuffer is unsupported on CPU: every CPU buffer is already
// host-addressable, so the distinction spec.md draws between Buffer and
// MappedBuffer collapses — and the spec explicitly lists mapped buffers as
// unsupported on this backend (§4.6).
func (d *Device) AllocateMappedBuffer(bytes uint64, access backend.Access) (backend.MappedBufferImpl, error) {
	return nil, unsupported("allocateMappedBuffer")
}

// AllocateImage returns a descriptor-only CPU image. See spec.md §4.6: "CPU
// images are descriptor-only (no pixel manipulation in the core)."
func (d *Device) AllocateImage(descr backend.ImageDescription) (backend.ImageImpl, error) {
	return newImage(descr), nil
}

// SharedImageFromBuffer aliases an existing buffer's storage with a new
// descriptor.
func (d *Device) SharedImageFromBuffer(descr backend.ImageDescription, buf backend.BufferImpl) (backend.ImageImpl, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, unsupported("sharedImage: buffer from a different backend")
	}
	return newSharedImage(descr, b.data), nil
}

// SharedImageFromImage aliases an existing image's storage with a new
// descriptor.
func (d *Device) SharedImageFromImage(descr backend.ImageDescription, img backend.ImageImpl) (backend.ImageImpl, error) {
	i, ok := img.(*Image)
	if !ok {
		return nil, unsupported("sharedImage: image from a different backend")
	}
	return newSharedImage(descr, i.data), nil
}

// GetAttribute reports CPU device properties. Device attribute queries are
// uncached: each call recomputes, per spec.md §5.
func (d *Device) GetAttribute(id backend.DeviceAttributeID) attribute.Attribute {
	switch id {
	case backend.DeviceImplementation:
		return attribute.NewString("cpu")
	case backend.DeviceName:
		return attribute.NewString(fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
	case backend.DeviceVendor:
		return attribute.NewString("CPU")
	case backend.DeviceDriverVersion:
		return attribute.NewString("")
	case backend.DeviceSubUnitCount:
		return attribute.NewInt32(1)
	case backend.DeviceUnifiedMemory:
		return attribute.NewBool(true)
	case backend.DeviceMaxThreadsPerGroup:
		return attribute.NewInt32(int32(d.cores))
	case backend.DeviceSupportsMappedBuffer:
		return attribute.NewBool(false)
	case backend.DeviceSupportsProgramConstants:
		return attribute.NewBool(false)
	case backend.DeviceSupportsSubgroup, backend.DeviceSupportsSubgroupShuffle,
		backend.DeviceSupportsImageIntFiltering, backend.DeviceSupportsImageFloatFiltering:
		return attribute.NewBool(false)
	default:
		return attribute.Attribute{}
	}
}

// Close tears down the default stream's thread pool.
func (d *Device) Close() error {
	d.defaultStream.pool.Close()
	return nil
}

// Cores returns the detected/configured core count. Function.Launch clamps
// fan-out to the same count, handed to it through the Library at
// LoadLibraryFromFile time.
func (d *Device) Cores() int { return d.cores }
