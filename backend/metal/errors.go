// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package metal

import "github.com/gmeeker/ghost/ghosterr"

func unsupported(op string) error {
	return ghosterr.Unsupported("metal", op)
}

// buildOrNative classifies a bridge error string: library-compile failures
// (from newLibraryWithSource/Data) are build errors with the compiler's
// NSError description as the log; every other bridge failure (for example
// pipeline-state creation) is reported as native.
func buildOrNative(op string, msg string) error {
	if op == "loadLibraryFromText" || op == "loadLibraryFromData" {
		return ghosterr.Build("metal", op, msg)
	}
	return ghosterr.Native("metal", op, 0, stringErr(msg))
}

type stringErr string

func (e stringErr) Error() string { return string(e) }
