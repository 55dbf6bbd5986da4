// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin

package ghost

import (
	"github.com/gmeeker/ghost/backend/metal"
	"github.com/gmeeker/ghost/ghostcfg"
)

// NewMetalDevice opens the Metal-class GPU backend, adopting shared's
// native handles when given.
func NewMetalDevice(shared SharedContext, cfg ghostcfg.Config) (*Device, error) {
	impl, err := metal.New(shared)
	if err != nil {
		return nil, err
	}
	return newDevice("metal", impl, cfg)
}
