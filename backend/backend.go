// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend defines the abstract contract every compute backend
// (CPU, CUDA-class, Metal-class, OpenCL-class) implements. The ghost
// package's public facade (Device, Stream, Buffer, Image, Library,
// Function) forwards to one of these implementations; end users never
// import this package directly. See spec.md §4.5.
package backend

import (
	"unsafe"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/cache"
)

// Access describes the read/write intent requested for a buffer or image
// allocation.
type Access int

const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

// DataType is an image element's scalar type.
type DataType int

const (
	UInt8 DataType = iota
	Int8
	UInt16
	Int16
	Float16
	Float32
	Float64
)

// byteWidth returns the per-channel element size in bytes.
func (d DataType) byteWidth() int {
	switch d {
	case UInt8, Int8:
		return 1
	case UInt16, Int16, Float16:
		return 2
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// PixelOrder packs a 4-channel permutation into 8 bits, 2 bits per channel
// slot, matching original_source's bit-packed enum.
type PixelOrder uint32

const (
	RGBA PixelOrder = (0 << 6) | (1 << 4) | (2 << 2) | (3 << 0)
	ARGB PixelOrder = (1 << 6) | (2 << 4) | (3 << 2) | (0 << 0)
	ABGR PixelOrder = (3 << 6) | (2 << 4) | (1 << 2) | (0 << 0)
	BGRA PixelOrder = (2 << 6) | (1 << 4) | (0 << 2) | (3 << 0)
)

// Size3 is a width/height/depth extent.
type Size3 struct {
	Width, Height, Depth int
}

// Stride2 is a row/slice byte stride pair.
type Stride2 struct {
	Row, Slice int32
}

// ImageDescription describes an image's layout and requested access. See
// spec.md §3.
type ImageDescription struct {
	Size     Size3
	Channels int
	Order    PixelOrder
	Type     DataType
	Stride   Stride2
	Access   Access
}

// PixelSize returns channels × element-byte-width.
func (d ImageDescription) PixelSize() int {
	return d.Channels * d.Type.byteWidth()
}

// DataSize returns stride.Slice × depth when the image has depth, otherwise
// stride.Row × height — the total backing-store size implied by the
// descriptor's strides.
func (d ImageDescription) DataSize() int {
	if d.Size.Depth > 1 {
		return int(d.Stride.Slice) * d.Size.Depth
	}
	return int(d.Stride.Row) * d.Size.Height
}

// DeviceAttributeID names a device property queryable via Device.GetAttribute.
type DeviceAttributeID int

const (
	DeviceImplementation DeviceAttributeID = iota
	DeviceName
	DeviceVendor
	DeviceDriverVersion
	DeviceSubUnitCount
	DeviceUnifiedMemory
	DeviceTotalMemory
	DeviceLocalMemory
	DeviceMaxThreadsPerGroup
	DeviceMaxWorkSizePerDim
	DeviceMaxRegisters
	DeviceMaxImageSize1D
	DeviceMaxImageSize2D
	DeviceMaxImageSize3D
	DeviceImageAlignment
	DeviceSupportsMappedBuffer
	DeviceSupportsProgramConstants
	DeviceSubgroupWidth
	DeviceSupportsSubgroup
	DeviceSupportsSubgroupShuffle
	DeviceSupportsImageIntFiltering
	DeviceSupportsImageFloatFiltering
)

// FunctionAttributeID names a function property queryable via
// Function.GetAttribute.
type FunctionAttributeID int

const (
	FunctionMaxThreadsPerGroup FunctionAttributeID = iota
	FunctionLocalMemoryUsage
	FunctionRegisterUsage
)

// LaunchArgs describes the ND launch geometry for a kernel invocation. See
// spec.md §4.5.
type LaunchArgs struct {
	dims         int
	globalSize   [3]uint32
	localSize    [3]uint32
	localDefined bool
}

// GlobalSize sets the global (grid) size for a 1, 2, or 3 dimensional
// launch; len(v) determines Dims().
func (l LaunchArgs) GlobalSize(v ...uint32) LaunchArgs {
	l.dims = len(v)
	for i, x := range v {
		l.globalSize[i] = x
	}
	return l
}

// LocalSize sets the local (work-group) size. Setting it marks
// IsLocalDefined true.
func (l LaunchArgs) LocalSize(v ...uint32) LaunchArgs {
	if len(v) > l.dims {
		l.dims = len(v)
	}
	for i, x := range v {
		l.localSize[i] = x
	}
	l.localDefined = true
	return l
}

// Dims returns the launch dimensionality (1, 2, or 3).
func (l LaunchArgs) Dims() int { return l.dims }

// GlobalSizeArray returns the per-dimension global size.
func (l LaunchArgs) GlobalSizeArray() [3]uint32 { return l.globalSize }

// LocalSizeArray returns the per-dimension local size. If IsLocalDefined is
// false, these are implementation-defined ones (matching the zero-valued
// default of LaunchArgs() in the original_source, which starts all sizes
// at 1).
func (l LaunchArgs) LocalSizeArray() [3]uint32 {
	out := l.localSize
	for i := 0; i < 3; i++ {
		if out[i] == 0 {
			out[i] = 1
		}
	}
	return out
}

// IsLocalDefined reports whether LocalSize was ever called.
func (l LaunchArgs) IsLocalDefined() bool { return l.localDefined }

// Count returns ⌈global[i] / local[i]⌉ for dimension i.
func (l LaunchArgs) Count(i int) uint32 {
	g := l.globalSize[i]
	loc := l.localSize[i]
	if loc == 0 {
		loc = 1
	}
	return (g + loc - 1) / loc
}

// CountTotal returns the product of Count(i) over all dimensions — the
// total number of work-groups the launch implies.
func (l LaunchArgs) CountTotal() uint64 {
	var v uint64 = 1
	for i := 0; i < l.dims; i++ {
		v *= uint64(l.Count(i))
	}
	return v
}

// NewLaunchArgs returns the zero LaunchArgs: dims 0, all sizes 1, local
// undefined, matching original_source's default constructor.
func NewLaunchArgs() LaunchArgs {
	return LaunchArgs{globalSize: [3]uint32{1, 1, 1}, localSize: [3]uint32{1, 1, 1}}
}

// SharedContext carries optional, externally-created native handles a
// Device can adopt instead of creating its own: a context, a queue/stream,
// a device, and a platform, all backend-specific and opaque to this
// package. Any subset may be nil/zero.
type SharedContext struct {
	Context  unsafe.Pointer
	Queue    unsafe.Pointer
	Device   unsafe.Pointer
	Platform unsafe.Pointer
}

// DeviceImpl is the contract a backend implements for device-level
// operations. The ghost package's Device facade forwards every public
// method to one of these.
type DeviceImpl interface {
	Fingerprint() cache.Fingerprint

	LoadLibraryFromText(text, options string) (LibraryImpl, error)
	LoadLibraryFromData(data []byte, options string) (LibraryImpl, error)

	CreateStream() (StreamImpl, error)
	DefaultStream() StreamImpl

	MemoryPoolSize() uint64
	SetMemoryPoolSize(bytes uint64)

	AllocateHostMemory(bytes uint64) (unsafe.Pointer, error)
	FreeHostMemory(ptr unsafe.Pointer)

	AllocateBuffer(bytes uint64, access Access) (BufferImpl, error)
	AllocateMappedBuffer(bytes uint64, access Access) (MappedBufferImpl, error)
	AllocateImage(descr ImageDescription) (ImageImpl, error)
	SharedImageFromBuffer(descr ImageDescription, buf BufferImpl) (ImageImpl, error)
	SharedImageFromImage(descr ImageDescription, img ImageImpl) (ImageImpl, error)

	GetAttribute(id DeviceAttributeID) attribute.Attribute

	Close() error
}

// FileLoader is an optional extension DeviceImpl implementations may
// provide: loadLibraryFromFile, composed by default from either a binary
// read (GPU backends) or a native shared-library dlopen (the CPU backend).
// A DeviceImpl that does not implement FileLoader falls back to
// LoadLibraryFromData(os.ReadFile(path)) in the ghost facade.
type FileLoader interface {
	LoadLibraryFromFile(path string) (LibraryImpl, error)
}

// StreamImpl is the contract behind ghost.Stream.
type StreamImpl interface {
	Sync() error
}

// StreamCloser is an optional extension of StreamImpl for backends whose
// stream wraps a native resource that must be explicitly destroyed (a
// created, non-adopted command queue). The ghost facade calls Close when
// releasing a stream it created, never on an adopted SharedContext.Queue.
type StreamCloser interface {
	Close() error
}

// LibraryCloser is an optional extension of LibraryImpl for backends whose
// library wraps a native module/program object that must be explicitly
// unloaded/released.
type LibraryCloser interface {
	Close() error
}

// FunctionCloser is an optional extension of FunctionImpl for backends
// whose function wraps native objects (a compiled pipeline state, say)
// beyond what releasing the owning library frees.
type FunctionCloser interface {
	Close() error
}

// BufferImpl is the contract behind ghost.Buffer.
type BufferImpl interface {
	CopyFromBuffer(s StreamImpl, src BufferImpl, bytes uint64) error
	CopyFromHost(s StreamImpl, src []byte) error
	CopyToHost(s StreamImpl, dst []byte) error
	Release()
}

// MappedBufferImpl is the contract behind ghost.MappedBuffer.
type MappedBufferImpl interface {
	BufferImpl
	Map(s StreamImpl, access Access, sync bool) (unsafe.Pointer, error)
	Unmap(s StreamImpl) error
}

// ImageImpl is the contract behind ghost.Image.
type ImageImpl interface {
	Description() ImageDescription
	CopyFromImage(s StreamImpl, src ImageImpl) error
	CopyFromBuffer(s StreamImpl, src BufferImpl, descr ImageDescription) error
	CopyFromHost(s StreamImpl, src []byte, descr ImageDescription) error
	CopyToBuffer(s StreamImpl, dst BufferImpl, descr ImageDescription) error
	CopyToHost(s StreamImpl, dst []byte, descr ImageDescription) error
	Release()
}

// LibraryImpl is the contract behind ghost.Library.
type LibraryImpl interface {
	LookupFunction(name string) (FunctionImpl, error)
}

// CacheableLibrary is an optional extension a library returned from
// LoadLibraryFromText/LoadLibraryFromData implements so the ghost facade
// can populate the on-disk binary cache after a JIT compile. One []byte per
// sub-unit, ordered to match cache.Fingerprint.SubUnitCount — a
// multi-device OpenCL build produces one compiled binary per device. A
// library returned from LoadLibraryFromFile or reloaded straight from a
// cache hit need not implement this: it already is the cached artifact.
type CacheableLibrary interface {
	LibraryImpl
	Binaries() [][]byte
}

// SpecializableLibrary is an optional extension for backends (Metal-class)
// that support function-constant specialisation.
type SpecializableLibrary interface {
	LookupSpecializedFunction(name string, attrs []attribute.Attribute) (FunctionImpl, error)
}

// FunctionImpl is the contract behind ghost.Function.
type FunctionImpl interface {
	Launch(s StreamImpl, args LaunchArgs, params []attribute.Attribute) error
	GetAttribute(id FunctionAttributeID) attribute.Attribute
}
