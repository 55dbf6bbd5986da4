// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/internal/refcount"
)

// Buffer is a device-resident, linear allocation of bytes.
type Buffer struct {
	box *refcount.Box[backend.BufferImpl]
}

func newBuffer(impl backend.BufferImpl) *Buffer {
	return &Buffer{box: refcount.New(impl, releaseBuffer)}
}

func releaseBuffer(impl backend.BufferImpl) { impl.Release() }

// unwrap returns the backend-native BufferImpl this facade wraps, for
// resolveParam and Device methods that must hand the backend its own
// concrete type back.
func (b *Buffer) unwrap() backend.BufferImpl { return b.box.Get() }

// CopyFromBuffer enqueues a device-to-device copy of bytes from src into b
// on stream.
func (b *Buffer) CopyFromBuffer(stream *Stream, src *Buffer, bytes uint64) error {
	return b.box.Get().CopyFromBuffer(stream.unwrap(), src.unwrap(), bytes)
}

// CopyFromHost enqueues a host-to-device copy of src into b on stream.
func (b *Buffer) CopyFromHost(stream *Stream, src []byte) error {
	return b.box.Get().CopyFromHost(stream.unwrap(), src)
}

// CopyToHost enqueues a device-to-host copy of b into dst on stream.
func (b *Buffer) CopyToHost(stream *Stream, dst []byte) error {
	return b.box.Get().CopyToHost(stream.unwrap(), dst)
}

// Release drops this reference, freeing the backend allocation when it was
// the last one.
func (b *Buffer) Release() { b.box.Release() }
