// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

package opencl

import "github.com/gmeeker/ghost/backend"

// Image implements backend.ImageImpl over a plain device buffer — see
// Device.AllocateImage for why this backend skips clCreateImage.
type Image struct {
	descr backend.ImageDescription
	buf   *Buffer
}

var _ backend.ImageImpl = (*Image)(nil)

func (img *Image) Description() backend.ImageDescription { return img.descr }

func (img *Image) CopyFromImage(s backend.StreamImpl, src backend.ImageImpl) error {
	o, ok := src.(*Image)
	if !ok {
		return unsupported("copyFromImage: source image from a different backend")
	}
	return img.buf.CopyFromBuffer(s, o.buf, o.buf.size)
}

func (img *Image) CopyFromBuffer(s backend.StreamImpl, src backend.BufferImpl, descr backend.ImageDescription) error {
	b, ok := src.(*Buffer)
	if !ok {
		return unsupported("copyFromBuffer: source buffer from a different backend")
	}
	return img.buf.CopyFromBuffer(s, b, b.size)
}

func (img *Image) CopyFromHost(s backend.StreamImpl, src []byte, descr backend.ImageDescription) error {
	return img.buf.CopyFromHost(s, src)
}

func (img *Image) CopyToBuffer(s backend.StreamImpl, dst backend.BufferImpl, descr backend.ImageDescription) error {
	b, ok := dst.(*Buffer)
	if !ok {
		return unsupported("copyToBuffer: destination buffer from a different backend")
	}
	return b.CopyFromBuffer(s, img.buf, img.buf.size)
}

func (img *Image) CopyToHost(s backend.StreamImpl, dst []byte, descr backend.ImageDescription) error {
	return img.buf.CopyToHost(s, dst)
}

func (img *Image) Release() {
	img.buf.Release()
}
