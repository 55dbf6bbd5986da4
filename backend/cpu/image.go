// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "github.com/gmeeker/ghost/backend"

// Image implements backend.ImageImpl. CPU images are descriptor-only: the
// backend never interprets pixel layout, it just carries bytes around. See
// spec.md §4.6.
type Image struct {
	descr backend.ImageDescription
	data  []byte
}

var _ backend.ImageImpl = (*Image)(nil)

func newImage(descr backend.ImageDescription) *Image {
	return &Image{descr: descr, data: make([]byte, descr.DataSize())}
}

// newSharedImage aliases an existing buffer's or image's backing slice,
// reinterpreted under a new descriptor. It does not allocate.
func newSharedImage(descr backend.ImageDescription, data []byte) *Image {
	return &Image{descr: descr, data: data}
}

// Description returns the image's layout descriptor.
func (img *Image) Description() backend.ImageDescription { return img.descr }

// CopyFromImage copies raw bytes from src, per spec.md §4.6's "no pixel
// manipulation in the core" — any format conversion is the caller's job.
func (img *Image) CopyFromImage(s backend.StreamImpl, src backend.ImageImpl) error {
	o, ok := src.(*Image)
	if !ok {
		return unsupported("copyFromImage: source image from a different backend")
	}
	copy(img.data, o.data)
	return nil
}

// CopyFromBuffer copies raw bytes from a buffer into the image.
func (img *Image) CopyFromBuffer(s backend.StreamImpl, src backend.BufferImpl, descr backend.ImageDescription) error {
	b, ok := src.(*Buffer)
	if !ok {
		return unsupported("copyFromBuffer: source buffer from a different backend")
	}
	copy(img.data, b.data)
	return nil
}

// CopyFromHost copies raw bytes from src into the image.
func (img *Image) CopyFromHost(s backend.StreamImpl, src []byte, descr backend.ImageDescription) error {
	copy(img.data, src)
	return nil
}

// CopyToBuffer copies raw bytes from the image into a buffer.
func (img *Image) CopyToBuffer(s backend.StreamImpl, dst backend.BufferImpl, descr backend.ImageDescription) error {
	b, ok := dst.(*Buffer)
	if !ok {
		return unsupported("copyToBuffer: destination buffer from a different backend")
	}
	copy(b.data, img.data)
	return nil
}

// CopyToHost copies raw bytes from the image into dst.
func (img *Image) CopyToHost(s backend.StreamImpl, dst []byte, descr backend.ImageDescription) error {
	copy(dst, img.data)
	return nil
}

// Release drops the image's backing storage.
func (img *Image) Release() {
	img.data = nil
}
