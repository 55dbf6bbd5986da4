// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package digest implements a streaming SHA-1 hash used to fingerprint
// binary-cache entries. SHA-1 itself is an external collaborator — this
// package only adds the stream-update/finalize contract spec.md §4.2
// requires on top of crypto/sha1.
package digest

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
)

// Length is the binary digest size in bytes.
const Length = 20

// Digest is an opaque stream hash. Update is associative over concatenation:
// Digest built from Update(a); Update(b) equals a Digest built from
// Update(a||b). Once Sum or Hex has been called, further Update calls are
// rejected — a Digest finalizes exactly once, matching SHA-1's own
// one-shot Final semantics in the original C++ implementation.
type Digest struct {
	h         hash.Hash
	finalized bool
}

// New returns a fresh, empty Digest.
func New() *Digest {
	return &Digest{h: sha1.New()}
}

// Update appends bytes to the stream. It panics if called after
// finalization — callers own the discipline of not updating a finalized
// Digest.
func (d *Digest) Update(p []byte) {
	if d.finalized {
		panic("digest: Update after finalize")
	}
	d.h.Write(p)
}

// Sum finalizes the stream and returns the 20-byte binary digest.
func (d *Digest) Sum() [Length]byte {
	d.finalized = true
	var out [Length]byte
	copy(out[:], d.h.Sum(nil))
	return out
}

// Hex finalizes the stream and returns the 40-character lowercase hex form,
// used as a filename stem by the binary cache.
func (d *Digest) Hex() string {
	sum := d.Sum()
	return hex.EncodeToString(sum[:])
}
