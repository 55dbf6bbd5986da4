// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

package opencl

/*
#define CL_TARGET_OPENCL_VERSION 120
#include <CL/cl.h>
*/
import "C"

import (
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/cache"
)

// Device implements backend.DeviceImpl over a single OpenCL device.
type Device struct {
	platform C.cl_platform_id
	device   C.cl_device_id
	context  C.cl_context
	ownsCtx  bool

	name          string
	vendor        string
	driverVersion string
	computeUnits  int32
	memPoolBytes  uint64

	defaultStream *Stream
}

var _ backend.DeviceImpl = (*Device)(nil)

// New selects platform/device index (a negative or out-of-range index
// selects the first platform or the first device of any type) and creates
// a context, or adopts shared.Context /
// shared.Device when provided — spec.md §4's shared-context path.
func New(platformIndex, deviceIndex int, shared backend.SharedContext) (*Device, error) {
	d := &Device{}

	if shared.Context != nil && shared.Device != nil {
		d.context = C.cl_context(shared.Context)
		d.device = C.cl_device_id(shared.Device)
		if shared.Platform != nil {
			d.platform = C.cl_platform_id(shared.Platform)
		}
		d.ownsCtx = false
	} else {
		platform, device, err := selectPlatformDevice(platformIndex, deviceIndex)
		if err != nil {
			return nil, err
		}
		d.platform = platform
		d.device = device

		var st C.cl_int
		ctx := C.clCreateContext(nil, 1, &device, nil, nil, &st)
		if err := status(st).ok(); err != nil {
			return nil, native("createContext", err.(status))
		}
		d.context = ctx
		d.ownsCtx = true
	}

	d.loadProperties()

	if shared.Queue != nil {
		d.defaultStream = adoptQueue(C.cl_command_queue(shared.Queue))
	} else {
		s, err := newStream(d.context, d.device)
		if err != nil {
			return nil, err
		}
		d.defaultStream = s
	}
	return d, nil
}

func selectPlatformDevice(platformIndex, deviceIndex int) (C.cl_platform_id, C.cl_device_id, error) {
	var numPlatforms C.cl_uint
	if err := status(C.clGetPlatformIDs(0, nil, &numPlatforms)).ok(); err != nil {
		return nil, nil, native("getPlatformIDs", err.(status))
	}
	if numPlatforms == 0 {
		return nil, nil, unsupported("no OpenCL platforms available")
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	C.clGetPlatformIDs(numPlatforms, &platforms[0], nil)

	pIdx := 0
	if platformIndex >= 0 && platformIndex < len(platforms) {
		pIdx = platformIndex
	}
	platform := platforms[pIdx]

	var numDevices C.cl_uint
	if err := status(C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_ALL, 0, nil, &numDevices)).ok(); err != nil {
		return nil, nil, native("getDeviceIDs", err.(status))
	}
	if numDevices == 0 {
		return nil, nil, unsupported("no OpenCL devices on selected platform")
	}
	devices := make([]C.cl_device_id, numDevices)
	C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_ALL, numDevices, &devices[0], nil)

	dIdx := 0
	if deviceIndex >= 0 && deviceIndex < len(devices) {
		dIdx = deviceIndex
	}
	return platform, devices[dIdx], nil
}

func deviceInfoString(device C.cl_device_id, param C.cl_device_info) string {
	var size C.size_t
	if C.clGetDeviceInfo(device, param, 0, nil, &size) != C.CL_SUCCESS || size == 0 {
		return ""
	}
	buf := make([]byte, size)
	C.clGetDeviceInfo(device, param, size, unsafe.Pointer(&buf[0]), nil)
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

func (d *Device) loadProperties() {
	d.name = deviceInfoString(d.device, C.CL_DEVICE_NAME)
	d.vendor = deviceInfoString(d.device, C.CL_DEVICE_VENDOR)
	d.driverVersion = deviceInfoString(d.device, C.CL_DRIVER_VERSION)

	var units C.cl_uint
	C.clGetDeviceInfo(d.device, C.CL_DEVICE_MAX_COMPUTE_UNITS, C.size_t(unsafe.Sizeof(units)), unsafe.Pointer(&units), nil)
	d.computeUnits = int32(units)
}

// Fingerprint implements backend.DeviceImpl.
func (d *Device) Fingerprint() cache.Fingerprint {
	return cache.Fingerprint{
		Vendor:        d.vendor,
		Name:          d.name,
		DriverVersion: d.driverVersion,
		SubUnitCount:  1,
	}
}

// LoadLibraryFromText compiles OpenCL C source with clBuildProgram.
func (d *Device) LoadLibraryFromText(text, options string) (backend.LibraryImpl, error) {
	return buildFromSource(d, text, options)
}

// LoadLibraryFromData loads a program from a vendor-specific binary blob
// (clCreateProgramWithBinary). Used for cache hits and pre-built IR the
// caller already has.
func (d *Device) LoadLibraryFromData(data []byte, options string) (backend.LibraryImpl, error) {
	return buildFromBinary(d, data)
}

// CreateStream creates a new OpenCL command queue.
func (d *Device) CreateStream() (backend.StreamImpl, error) {
	return newStream(d.context, d.device)
}

// DefaultStream returns the device's default command queue.
func (d *Device) DefaultStream() backend.StreamImpl { return d.defaultStream }

// MemoryPoolSize/SetMemoryPoolSize are advisory — OpenCL exposes no
// pool-limit primitive this backend resolves.
func (d *Device) MemoryPoolSize() uint64         { return d.memPoolBytes }
func (d *Device) SetMemoryPoolSize(bytes uint64) { d.memPoolBytes = bytes }

// AllocateHostMemory is unsupported as a standalone operation on OpenCL:
// pinned host memory here only exists tied to a mapped buffer's
// CL_MEM_ALLOC_HOST_PTR allocation (see AllocateMappedBuffer).
func (d *Device) AllocateHostMemory(bytes uint64) (unsafe.Pointer, error) {
	return nil, unsupported("allocateHostMemory")
}

func (d *Device) FreeHostMemory(ptr unsafe.Pointer) {}

// AllocateBuffer allocates a device buffer via clCreateBuffer.
func (d *Device) AllocateBuffer(bytes uint64, access backend.Access) (backend.BufferImpl, error) {
	var st C.cl_int
	mem := C.clCreateBuffer(d.context, clMemFlags(access), C.size_t(bytes), nil, &st)
	if err := status(st).ok(); err != nil {
		return nil, native("createBuffer", err.(status))
	}
	return &Buffer{device: d, mem: mem, size: bytes}, nil
}

// AllocateMappedBuffer allocates a host-accessible buffer with
// CL_MEM_ALLOC_HOST_PTR, mappable via clEnqueueMapBuffer.
func (d *Device) AllocateMappedBuffer(bytes uint64, access backend.Access) (backend.MappedBufferImpl, error) {
	var st C.cl_int
	flags := clMemFlags(access) | C.CL_MEM_ALLOC_HOST_PTR
	mem := C.clCreateBuffer(d.context, flags, C.size_t(bytes), nil, &st)
	if err := status(st).ok(); err != nil {
		return nil, native("createBuffer", err.(status))
	}
	return &MappedBuffer{Buffer: Buffer{device: d, mem: mem, size: bytes}}, nil
}

// AllocateImage allocates a device buffer to back a descriptor-only image;
// this backend does not use clCreateImage or its format-matching
// machinery (see DESIGN.md).
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

// GetAttribute reports OpenCL device properties.
func (d *Device) GetAttribute(id backend.DeviceAttributeID) attribute.Attribute {
	switch id {
	case backend.DeviceImplementation:
		return attribute.NewString("opencl")
	case backend.DeviceName:
		return attribute.NewString(d.name)
	case backend.DeviceVendor:
		return attribute.NewString(d.vendor)
	case backend.DeviceDriverVersion:
		return attribute.NewString(d.driverVersion)
	case backend.DeviceSubUnitCount:
		return attribute.NewInt32(d.computeUnits)
	case backend.DeviceSupportsMappedBuffer:
		return attribute.NewBool(true)
	case backend.DeviceSupportsProgramConstants:
		return attribute.NewBool(false)
	default:
		return attribute.Attribute{}
	}
}

// Close releases the default queue and, if this Device created its own
// context, the context too.
func (d *Device) Close() error {
	d.defaultStream.Close()
	if d.ownsCtx {
		C.clReleaseContext(d.context)
	}
	return nil
}

func clMemFlags(access backend.Access) C.cl_mem_flags {
	switch access {
	case backend.ReadOnly:
		return C.CL_MEM_READ_ONLY
	case backend.WriteOnly:
		return C.CL_MEM_WRITE_ONLY
	default:
		return C.CL_MEM_READ_WRITE
	}
}
