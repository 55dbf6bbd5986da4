// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ghost_opencl

package opencl

import "github.com/gmeeker/ghost/ghosterr"

func unsupported(op string) error {
	return ghosterr.Unsupported("opencl", op)
}

func native(op string, s status) error {
	return ghosterr.Native("opencl", op, int64(s), s)
}

func buildErr(log string) error {
	return ghosterr.Build("opencl", "loadLibraryFromText", log)
}
