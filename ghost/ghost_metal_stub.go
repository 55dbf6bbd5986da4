// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !darwin

package ghost

import (
	"github.com/gmeeker/ghost/ghostcfg"
	"github.com/gmeeker/ghost/ghosterr"
)

// NewMetalDevice is unavailable on non-Darwin platforms; Metal is an
// Apple-only API.
func NewMetalDevice(shared SharedContext, cfg ghostcfg.Config) (*Device, error) {
	return nil, ghosterr.Unsupported("metal", "newMetalDevice: not built on this GOOS")
}
