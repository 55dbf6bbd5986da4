// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import "github.com/gmeeker/ghost/ghosterr"

func unsupported(op string) error {
	return ghosterr.Unsupported("cuda", op)
}

func native(op string, r result) error {
	return ghosterr.Native("cuda", op, int64(r), r)
}

func ioErr(op string, err error) error {
	return ghosterr.IO("cuda", op, err)
}
