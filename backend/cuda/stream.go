// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import "github.com/gmeeker/ghost/backend"

// Stream implements backend.StreamImpl over a CUDA stream handle.
type Stream struct {
	handle uintptr
	owns   bool
}

var _ backend.StreamImpl = (*Stream)(nil)

func newStream() (*Stream, error) {
	var h uintptr
	if err := cuStreamCreate(&h, 0).ok(); err != nil {
		return nil, native("streamCreate", err.(result))
	}
	return &Stream{handle: h, owns: true}, nil
}

// adoptStream wraps an externally-created CUstream without taking
// ownership of it.
func adoptStream(h uintptr) *Stream {
	return &Stream{handle: h, owns: false}
}

// Sync blocks until every operation queued on this stream has completed.
func (s *Stream) Sync() error {
	if err := cuStreamSynchronize(s.handle).ok(); err != nil {
		return native("streamSynchronize", err.(result))
	}
	return nil
}

// Close destroys the stream if this Stream owns it.
func (s *Stream) Close() error {
	if s.owns {
		cuStreamDestroy(s.handle)
	}
	return nil
}
