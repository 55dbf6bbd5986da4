// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package metal

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/handle"
)

// Stream implements backend.StreamImpl over an MTLCommandQueue. Each
// synchronous operation (copy, dispatch) opens its own command buffer and
// commits-and-waits immediately, matching spec.md's synchronous-by-default
// stream model; Sync is then always a no-op in practice but kept for
// interface conformance and future batching.
type Stream struct {
	h handle.Handle[unsafe.Pointer, objTraits]
}

var _ backend.StreamImpl = (*Stream)(nil)

func newStream(device unsafe.Pointer) (*Stream, error) {
	ptr := C.ghost_metal_create_queue(device)
	if ptr == nil {
		return nil, unsupported("createStream: newCommandQueue failed")
	}
	return &Stream{h: handle.Adopt[unsafe.Pointer, objTraits](objTraits{}, unsafe.Pointer(ptr))}, nil
}

func adoptQueue(queue unsafe.Pointer) *Stream {
	return &Stream{h: handle.WrapShared[unsafe.Pointer, objTraits](objTraits{}, queue)}
}

// commandBuffer opens and returns a new, owned command buffer on this
// stream's queue.
func (s *Stream) commandBuffer() unsafe.Pointer {
	return unsafe.Pointer(C.ghost_metal_queue_command_buffer(s.h.Get()))
}

// Sync is a no-op: every operation on this backend already
// commits-and-waits its own command buffer before returning.
func (s *Stream) Sync() error { return nil }

// Close releases the command queue handle.
func (s *Stream) Close() error {
	s.h.Reset()
	return nil
}
