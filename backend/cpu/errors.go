// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "github.com/gmeeker/ghost/ghosterr"

func unsupported(op string) error {
	return ghosterr.Unsupported("cpu", op)
}

func ioErr(op string, err error) error {
	return ghosterr.IO("cpu", op, err)
}
