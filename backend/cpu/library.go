// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/gmeeker/ghost/backend"
	"github.com/gmeeker/ghost/internal/loader"
)

// Library implements backend.LibraryImpl by dlopen-ing a native shared
// library whose exported symbols follow the nativeKernelFunc ABI. This is
// the CPU analogue of every GPU backend's binary-module load, grounded on
// internal/loader (see DESIGN.md).
type Library struct {
	lib   *loader.Library
	cores int
}

var _ backend.LibraryImpl = (*Library)(nil)

func openLibrary(path string, cores int) (*Library, error) {
	lib, err := loader.Open(path)
	if err != nil {
		return nil, ioErr("loadLibraryFromFile", err)
	}
	return &Library{lib: lib, cores: cores}, nil
}

// LookupFunction resolves name as a nativeKernelFunc symbol in the library.
func (l *Library) LookupFunction(name string) (backend.FunctionImpl, error) {
	var raw nativeKernelFunc
	l.lib.Register(&raw, name)
	return &Function{name: name, raw: raw, cores: l.cores}, nil
}

// Close unloads the underlying shared object.
func (l *Library) Close() error {
	return l.lib.Close()
}
