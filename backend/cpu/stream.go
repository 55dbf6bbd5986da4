// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "github.com/gmeeker/ghost/backend"

// Stream implements backend.StreamImpl. Every CPU stream owns its own
// thread pool — pools are never shared between streams, matching spec.md
// §3's statement that a StreamCPU owns a thread pool.
type Stream struct {
	pool *ThreadPool
}

var _ backend.StreamImpl = (*Stream)(nil)

func newStream(cores int) *Stream {
	return &Stream{pool: NewThreadPool(cores)}
}

// Sync blocks until every unit of work enqueued on this stream's pool has
// completed.
func (s *Stream) Sync() error {
	s.pool.Sync()
	return nil
}

// Close tears down the stream's thread pool. Not part of backend.StreamImpl:
// the ghost facade calls it directly when releasing a non-default stream.
func (s *Stream) Close() error {
	s.pool.Close()
	return nil
}
