// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "github.com/gmeeker/ghost/backend"

// Buffer implements backend.BufferImpl as a plain Go byte slice: on CPU
// there is no separate host/device address space, so copies are ordinary
// memmoves. All copy methods run synchronously; the StreamImpl parameter is
// accepted for interface conformance but CPU copies never queue.
type Buffer struct {
	data []byte
}

var _ backend.BufferImpl = (*Buffer)(nil)

func newBuffer(bytes uint64) *Buffer {
	return &Buffer{data: make([]byte, bytes)}
}

// CopyFromBuffer copies bytes from src into b, starting at offset 0 in both.
func (b *Buffer) CopyFromBuffer(s backend.StreamImpl, src backend.BufferImpl, bytes uint64) error {
	o, ok := src.(*Buffer)
	if !ok {
		return unsupported("copyFromBuffer: source buffer from a different backend")
	}
	n := copy(b.data, o.data[:clampLen(bytes, len(o.data))])
	_ = n
	return nil
}

// CopyFromHost copies src into b.
func (b *Buffer) CopyFromHost(s backend.StreamImpl, src []byte) error {
	copy(b.data, src)
	return nil
}

// CopyToHost copies b into dst.
func (b *Buffer) CopyToHost(s backend.StreamImpl, dst []byte) error {
	copy(dst, b.data)
	return nil
}

// Release drops the buffer's backing storage, letting Go's GC reclaim it.
func (b *Buffer) Release() {
	b.data = nil
}

func clampLen(bytes uint64, max int) int {
	if int(bytes) > max {
		return max
	}
	return int(bytes)
}
