// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refcount

import "testing"

func TestBoxReleasesOnLastReference(t *testing.T) {
	released := 0
	b := New(42, func(int) { released++ })

	clone := b.Retain()
	if got, want := b.Count(), int32(2); got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}

	clone.Release()
	if released != 0 {
		t.Fatalf("released = %d after one of two references dropped, want 0", released)
	}

	b.Release()
	if released != 1 {
		t.Fatalf("released = %d after last reference dropped, want 1", released)
	}
}

func TestBoxGetReturnsValue(t *testing.T) {
	b := New("payload", func(string) {})
	defer b.Release()
	if got, want := b.Get(), "payload"; got != want {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}
