// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/internal/refcount"
)

// Image is a device-resident, strided multi-dimensional pixel buffer.
type Image struct {
	box *refcount.Box[backend.ImageImpl]
}

func newImage(impl backend.ImageImpl) *Image {
	return &Image{box: refcount.New(impl, releaseImage)}
}

func releaseImage(impl backend.ImageImpl) { impl.Release() }

// unwrap returns the backend-native ImageImpl this facade wraps.
func (i *Image) unwrap() backend.ImageImpl { return i.box.Get() }

// Description returns the descriptor the image was allocated or viewed
// with.
func (i *Image) Description() ImageDescription { return i.box.Get().Description() }

// CopyFromImage enqueues a device-to-device copy from src into i.
func (i *Image) CopyFromImage(stream *Stream, src *Image) error {
	return i.box.Get().CopyFromImage(stream.unwrap(), src.unwrap())
}

// CopyFromBuffer enqueues a device-to-device copy from src, reinterpreted
// under descr, into i.
func (i *Image) CopyFromBuffer(stream *Stream, src *Buffer, descr ImageDescription) error {
	return i.box.Get().CopyFromBuffer(stream.unwrap(), src.unwrap(), descr)
}

// CopyFromHost enqueues a host-to-device copy of src, laid out per descr,
// into i.
func (i *Image) CopyFromHost(stream *Stream, src []byte, descr ImageDescription) error {
	return i.box.Get().CopyFromHost(stream.unwrap(), src, descr)
}

// CopyToBuffer enqueues a device-to-device copy of i into dst,
// reinterpreted under descr.
func (i *Image) CopyToBuffer(stream *Stream, dst *Buffer, descr ImageDescription) error {
	return i.box.Get().CopyToBuffer(stream.unwrap(), dst.unwrap(), descr)
}

// CopyToHost enqueues a device-to-host copy of i into dst, laid out per
// descr.
func (i *Image) CopyToHost(stream *Stream, dst []byte, descr ImageDescription) error {
	return i.box.Get().CopyToHost(stream.unwrap(), dst, descr)
}

// Release drops this reference, freeing the backend allocation when it was
// the last one.
func (i *Image) Release() { i.box.Release() }
