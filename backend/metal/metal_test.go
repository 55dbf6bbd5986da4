// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package metal

import "testing"

// TestClampLen exercises the only hardware-independent logic in this
// package; everything else talks to MTLDevice/MTLCommandQueue through the
// cgo bridge and needs real Metal hardware to exercise — see DESIGN.md.
func TestClampLen(t *testing.T) {
	cases := []struct {
		want, avail, out uint64
	}{
		{10, 20, 10},
		{20, 10, 10},
		{0, 10, 0},
		{10, 10, 10},
	}
	for _, c := range cases {
		if got := clampLen(c.want, c.avail); got != c.out {
			t.Errorf("clampLen(%d, %d) = %d, want %d", c.want, c.avail, got, c.out)
		}
	}
}
