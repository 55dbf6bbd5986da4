// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package attribute implements the tagged-variant value type used to pass
// kernel launch arguments and to report device/function properties.
//
// An Attribute is a small value type: it is created by value, freely copied,
// and never owns a referenced buffer or image (those are reference-counted
// by the ghost package). Reading through a type-mismatched accessor returns
// a zero-like value rather than panicking — the kernel ABI is the contract,
// and Attribute does not attempt to enforce it.
package attribute

// Type identifies the variant stored in an Attribute.
type Type int

// Variant kinds. The zero value is Unknown, matching an Attribute's zero
// value being invalid.
const (
	Unknown Type = iota
	String
	Float
	Int
	UInt
	Bool
	BufferRef
	ImageRef
	LocalMem
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Float:
		return "float"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Bool:
		return "bool"
	case BufferRef:
		return "buffer"
	case ImageRef:
		return "image"
	case LocalMem:
		return "localmem"
	default:
		return "unknown"
	}
}

// BufferHandle and ImageHandle are the minimal resource-reference contracts
// an Attribute needs. ghost.Buffer and ghost.Image satisfy them; Attribute
// never dereferences or retains them — ownership stays with the caller.
type BufferHandle interface{}
type ImageHandle interface{}

// Attribute is a tagged-union scalar/vector/resource value. The zero value
// is the Unknown variant and is not Valid.
//
// Numeric variants (Float, Int, UInt) simultaneously retain a 32-bit and a
// 64-bit view of the same values (Bool keeps a single bool view), so a
// kernel binding that expects the
// sibling width needs no reconversion by the caller: whichever width the
// host supplied, both views are populated at construction time using Go's
// standard numeric conversion (no saturation, no rounding beyond what the
// conversion itself performs).
type Attribute struct {
	typ   Type
	count int

	f32 [4]float32
	f64 [4]float64

	i32 [4]int32
	i64 [4]int64

	u32 [4]uint32
	u64 [4]uint64

	b [4]bool

	s string

	buffer BufferHandle
	image  ImageHandle
}

// Valid reports whether the Attribute holds anything other than Unknown.
func (a Attribute) Valid() bool { return a.typ != Unknown }

// Type returns the variant kind.
func (a Attribute) Type() Type { return a.typ }

// Count returns the element count, in [0,4] for numeric/bool variants and 1
// for resource variants and LocalMem.
func (a Attribute) Count() int { return a.count }

// NewString constructs a String attribute.
func NewString(s string) Attribute {
	return Attribute{typ: String, count: 1, s: s}
}

// NewFloat32 constructs a Float attribute from up to four float32 values.
func NewFloat32(v ...float32) Attribute {
	a := Attribute{typ: Float, count: clampCount(len(v))}
	for i := 0; i < a.count; i++ {
		a.f32[i] = v[i]
		a.f64[i] = float64(v[i])
	}
	return a
}

// NewFloat64 constructs a Float attribute from up to four float64 values.
// The sibling 32-bit view is the natural Go narrowing conversion.
func NewFloat64(v ...float64) Attribute {
	a := Attribute{typ: Float, count: clampCount(len(v))}
	for i := 0; i < a.count; i++ {
		a.f64[i] = v[i]
		a.f32[i] = float32(v[i])
	}
	return a
}

// NewInt32 constructs a signed Int attribute from up to four int32 values.
func NewInt32(v ...int32) Attribute {
	a := Attribute{typ: Int, count: clampCount(len(v))}
	for i := 0; i < a.count; i++ {
		a.i32[i] = v[i]
		a.i64[i] = int64(v[i])
	}
	return a
}

// NewInt64 constructs a signed Int attribute from up to four int64 values.
// The sibling 32-bit view is the natural Go narrowing conversion.
func NewInt64(v ...int64) Attribute {
	a := Attribute{typ: Int, count: clampCount(len(v))}
	for i := 0; i < a.count; i++ {
		a.i64[i] = v[i]
		a.i32[i] = int32(v[i])
	}
	return a
}

// NewUInt32 constructs an unsigned Int attribute (variant UInt) from up to
// four uint32 values.
func NewUInt32(v ...uint32) Attribute {
	a := Attribute{typ: UInt, count: clampCount(len(v))}
	for i := 0; i < a.count; i++ {
		a.u32[i] = v[i]
		a.u64[i] = uint64(v[i])
	}
	return a
}

// NewUInt64 constructs an unsigned Int attribute from up to four uint64
// values.
func NewUInt64(v ...uint64) Attribute {
	a := Attribute{typ: UInt, count: clampCount(len(v))}
	for i := 0; i < a.count; i++ {
		a.u64[i] = v[i]
		a.u32[i] = uint32(v[i])
	}
	return a
}

// NewBool constructs a Bool attribute from up to four bool values.
func NewBool(v ...bool) Attribute {
	a := Attribute{typ: Bool, count: clampCount(len(v))}
	copy(a.b[:], v)
	return a
}

// NewBufferRef constructs a resource-reference Attribute over a buffer. The
// Attribute does not take ownership of buf.
func NewBufferRef(buf BufferHandle) Attribute {
	return Attribute{typ: BufferRef, count: 1, buffer: buf}
}

// NewImageRef constructs a resource-reference Attribute over an image. The
// Attribute does not take ownership of img.
func NewImageRef(img ImageHandle) Attribute {
	return Attribute{typ: ImageRef, count: 1, image: img}
}

// NewLocalMem constructs a local/shared-memory request of the given byte count.
func NewLocalMem(bytes uint32) Attribute {
	a := Attribute{typ: LocalMem, count: 1}
	a.u32[0] = bytes
	a.u64[0] = uint64(bytes)
	return a
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > 4 {
		return 4
	}
	return n
}

// AsString returns the String payload, or "" if the variant is not String.
func (a Attribute) AsString() string {
	if a.typ != String {
		return ""
	}
	return a.s
}

// Float32Array returns the 4-slot float32 view, valid for any numeric
// variant constructed with either width.
func (a Attribute) Float32Array() [4]float32 { return a.f32 }

// Float64Array returns the 4-slot float64 view.
func (a Attribute) Float64Array() [4]float64 { return a.f64 }

// AsFloat32 returns slot 0 of the float32 view.
func (a Attribute) AsFloat32() float32 { return a.f32[0] }

// AsFloat64 returns slot 0 of the float64 view.
func (a Attribute) AsFloat64() float64 { return a.f64[0] }

// Int32Array returns the 4-slot int32 view.
func (a Attribute) Int32Array() [4]int32 { return a.i32 }

// Int64Array returns the 4-slot int64 view.
func (a Attribute) Int64Array() [4]int64 { return a.i64 }

// AsInt32 returns slot 0 of the int32 view.
func (a Attribute) AsInt32() int32 { return a.i32[0] }

// AsInt64 returns slot 0 of the int64 view.
func (a Attribute) AsInt64() int64 { return a.i64[0] }

// UInt32Array returns the 4-slot uint32 view.
func (a Attribute) UInt32Array() [4]uint32 { return a.u32 }

// UInt64Array returns the 4-slot uint64 view.
func (a Attribute) UInt64Array() [4]uint64 { return a.u64 }

// AsUInt32 returns slot 0 of the uint32 view.
func (a Attribute) AsUInt32() uint32 { return a.u32[0] }

// AsUInt64 returns slot 0 of the uint64 view.
func (a Attribute) AsUInt64() uint64 { return a.u64[0] }

// BoolArray returns the 4-slot bool view.
func (a Attribute) BoolArray() [4]bool { return a.b }

// AsBool returns slot 0 of the bool view.
func (a Attribute) AsBool() bool { return a.b[0] }

// AsBuffer returns the buffer reference, or nil if the variant is not
// BufferRef.
func (a Attribute) AsBuffer() BufferHandle {
	if a.typ != BufferRef {
		return nil
	}
	return a.buffer
}

// AsImage returns the image reference, or nil if the variant is not
// ImageRef.
func (a Attribute) AsImage() ImageHandle {
	if a.typ != ImageRef {
		return nil
	}
	return a.image
}

// LocalMemBytes returns the requested byte count for a LocalMem variant.
func (a Attribute) LocalMemBytes() uint32 {
	if a.typ != LocalMem {
		return 0
	}
	return a.u32[0]
}
