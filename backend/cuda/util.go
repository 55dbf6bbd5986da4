// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cuda

import "unsafe"

// ptrOf returns a pointer to b's backing array, or nil for an empty slice.
// Every driver call this backend makes is synchronous from Go's point of
// view (the CUDA call itself queues asynchronously on the device, but
// purego's call returns only after the driver has read the argument), so
// there is no risk of the slice moving out from under the pointer between
// this call and the driver consuming it.
func ptrOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
