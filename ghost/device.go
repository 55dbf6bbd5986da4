// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"os"
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/backend/cpu"
	"github.com/gmeeker/ghost/backend/cuda"
	"github.com/gmeeker/ghost/cache"
	"github.com/gmeeker/ghost/ghostcfg"
	"github.com/gmeeker/ghost/internal/glog"
)

// Device is the facade over one backend.DeviceImpl. Construct one with
// NewCPUDevice, NewCUDADevice, NewMetalDevice (darwin only, see
// ghost_metal.go), or NewOpenCLDevice (requires the ghost_opencl build tag
// and a system OpenCL SDK, see ghost_opencl.go).
type Device struct {
	impl  backend.DeviceImpl
	kind  string
	cache *cache.Cache
	cfg   ghostcfg.Config

	defaultStream *Stream
}

func newDevice(kind string, impl backend.DeviceImpl, cfg ghostcfg.Config) (*Device, error) {
	d := &Device{impl: impl, kind: kind, cache: cache.New(cfg.CachePath), cfg: cfg}
	stream, err := wrapStream(impl.DefaultStream(), false)
	if err != nil {
		impl.Close()
		return nil, err
	}
	d.defaultStream = stream
	return d, nil
}

// NewCPUDevice opens the CPU backend. cfg.CPUCores overrides the
// auto-detected core count (0 means auto-detect).
func NewCPUDevice(cfg ghostcfg.Config) (*Device, error) {
	return newDevice("cpu", cpu.New(cfg.CPUCores), cfg)
}

// NewCUDADevice opens the CUDA-class GPU backend on the device at ordinal,
// optionally adopting externally-created native handles from shared.
func NewCUDADevice(ordinal int32, shared SharedContext, cfg ghostcfg.Config) (*Device, error) {
	impl, err := cuda.New(ordinal, shared)
	if err != nil {
		return nil, err
	}
	return newDevice("cuda", impl, cfg)
}

// Kind reports which backend this Device forwards to: "cpu", "cuda",
// "metal", or "opencl".
func (d *Device) Kind() string { return d.kind }

// BinaryCache returns the binary cache (rooted at the Config's CachePath,
// one Cache value per Device) this Device populates
// on a JIT compile and consults before the next one.
func (d *Device) BinaryCache() *cache.Cache { return d.cache }

// LoadLibraryFromText compiles text (source code in the backend's native
// kernel language) with options, consulting the binary cache first and
// populating it afterward when the backend reports compiled binaries via
// backend.CacheableLibrary.
func (d *Device) LoadLibraryFromText(text, options string) (*Library, error) {
	fp := d.impl.Fingerprint()
	if binaries, ok := d.cache.Load(fp, []byte(text), options); ok && len(binaries) > 0 {
		glog.Debugf("ghost", "%s: binary cache hit for loadLibraryFromText", d.kind)
		impl, err := d.impl.LoadLibraryFromData(binaries[0], options)
		if err == nil {
			return newLibrary(impl), nil
		}
		glog.Debugf("ghost", "%s: cached binary rejected, recompiling: %v", d.kind, err)
	}

	impl, err := d.impl.LoadLibraryFromText(text, options)
	if err != nil {
		return nil, err
	}
	if cl, ok := impl.(backend.CacheableLibrary); ok {
		if binaries := cl.Binaries(); len(binaries) > 0 {
			d.cache.Save(fp, binaries, []byte(text), options)
		}
	}
	return newLibrary(impl), nil
}

// LoadLibraryFromData loads a precompiled binary blob (PTX/cubin,
// .metallib archive, or OpenCL program binary) directly; the binary cache
// is not consulted since data is already the compiled artifact.
func (d *Device) LoadLibraryFromData(data []byte, options string) (*Library, error) {
	impl, err := d.impl.LoadLibraryFromData(data, options)
	if err != nil {
		return nil, err
	}
	return newLibrary(impl), nil
}

// LoadLibraryFromFile loads a library from a file path, using the
// backend's own loader (CPU's dlopen, for instance) when it implements
// backend.FileLoader, or falling back to a plain read plus
// LoadLibraryFromData otherwise.
func (d *Device) LoadLibraryFromFile(path string) (*Library, error) {
	if fl, ok := d.impl.(backend.FileLoader); ok {
		impl, err := fl.LoadLibraryFromFile(path)
		if err != nil {
			return nil, err
		}
		return newLibrary(impl), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.LoadLibraryFromData(data, "")
}

// CreateStream creates a new stream independent of the device's default.
func (d *Device) CreateStream() (*Stream, error) {
	impl, err := d.impl.CreateStream()
	if err != nil {
		return nil, err
	}
	return wrapStream(impl, true)
}

// DefaultStream returns a reference to the device's default stream. Each
// call retains a fresh reference; the caller should Close it when done,
// same as any other Stream.
func (d *Device) DefaultStream() *Stream {
	return &Stream{box: d.defaultStream.box.Retain(), owned: false}
}

// MemoryPoolSize/SetMemoryPoolSize are advisory (see backend.DeviceImpl).
func (d *Device) MemoryPoolSize() uint64         { return d.impl.MemoryPoolSize() }
func (d *Device) SetMemoryPoolSize(bytes uint64) { d.impl.SetMemoryPoolSize(bytes) }

// AllocateHostMemory allocates pinned/host-visible memory outside any
// buffer object, for backends that support a standalone allocation.
func (d *Device) AllocateHostMemory(bytes uint64) (unsafe.Pointer, error) {
	return d.impl.AllocateHostMemory(bytes)
}

// FreeHostMemory frees memory returned by AllocateHostMemory.
func (d *Device) FreeHostMemory(ptr unsafe.Pointer) {
	d.impl.FreeHostMemory(ptr)
}

// AllocateBuffer allocates a device buffer of the given size and access.
func (d *Device) AllocateBuffer(bytes uint64, access Access) (*Buffer, error) {
	impl, err := d.impl.AllocateBuffer(bytes, access)
	if err != nil {
		return nil, err
	}
	return newBuffer(impl), nil
}

// AllocateMappedBuffer allocates a buffer that supports Map/Unmap for
// direct host access.
func (d *Device) AllocateMappedBuffer(bytes uint64, access Access) (*MappedBuffer, error) {
	impl, err := d.impl.AllocateMappedBuffer(bytes, access)
	if err != nil {
		return nil, err
	}
	return newMappedBuffer(impl), nil
}

// AllocateImage allocates a standalone image matching descr.
func (d *Device) AllocateImage(descr ImageDescription) (*Image, error) {
	impl, err := d.impl.AllocateImage(descr)
	if err != nil {
		return nil, err
	}
	return newImage(impl), nil
}

// SharedImageFromBuffer returns an image view over buf's storage with a new
// descriptor; buf remains independently usable, and the two alias the same
// backing memory.
func (d *Device) SharedImageFromBuffer(descr ImageDescription, buf *Buffer) (*Image, error) {
	impl, err := d.impl.SharedImageFromBuffer(descr, buf.unwrap())
	if err != nil {
		return nil, err
	}
	return newImage(impl), nil
}

// SharedImageFromImage returns a new image view aliasing img's storage
// under a new descriptor.
func (d *Device) SharedImageFromImage(descr ImageDescription, img *Image) (*Image, error) {
	impl, err := d.impl.SharedImageFromImage(descr, img.unwrap())
	if err != nil {
		return nil, err
	}
	return newImage(impl), nil
}

// GetAttribute reports a device property.
func (d *Device) GetAttribute(id DeviceAttributeID) attribute.Attribute {
	return d.impl.GetAttribute(id)
}

// PurgeBinaries removes cache entries older than days. days<=0 uses the
// device's configured CachePurgeDays (0 if that was never set, so the
// device must have been constructed with ghostcfg.DefaultConfig() or an
// explicit value to get the documented 30-day default).
func (d *Device) PurgeBinaries(days int) {
	if days <= 0 {
		days = d.cfg.CachePurgeDays
	}
	d.cache.PurgeBinaries(days)
}

// Close releases the default stream and the underlying backend device.
func (d *Device) Close() error {
	d.defaultStream.Close()
	return d.impl.Close()
}
