// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghost

import (
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/internal/refcount"
)

// Stream is an ordered queue of backend work (CUDA stream, Metal command
// queue, OpenCL command queue, or the CPU backend's task queue).
type Stream struct {
	box *refcount.Box[backend.StreamImpl]
	// owned is true for a Stream this package created and must Close on
	// last release; false for the Device's default stream, which the
	// Device itself owns and tears down in Device.Close.
	owned bool
}

func wrapStream(impl backend.StreamImpl, owned bool) (*Stream, error) {
	s := &Stream{owned: owned}
	s.box = refcount.New(impl, s.release)
	return s, nil
}

func (s *Stream) release(impl backend.StreamImpl) {
	if s.owned {
		if sc, ok := impl.(backend.StreamCloser); ok {
			if err := sc.Close(); err != nil {
				return
			}
		}
	}
}

func (s *Stream) unwrap() backend.StreamImpl { return s.box.Get() }

// Sync blocks until every operation enqueued on the stream so far has
// completed.
func (s *Stream) Sync() error { return s.box.Get().Sync() }

// Close drops this reference to the stream, tearing down the native queue
// when it was the last one and this Stream was created (not the Device's
// default, which the owning Device manages).
func (s *Stream) Close() error {
	s.box.Release()
	return nil
}
