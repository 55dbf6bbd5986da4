// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ghostinfo opens a compute backend and prints its device
// attributes, the way a driver's info utility would.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gmeeker/ghost/attribute"
	"github.com/gmeeker/ghost/ghost"
	"github.com/gmeeker/ghost/ghostcfg"
)

var attrNames = map[ghost.DeviceAttributeID]string{
	ghost.DeviceImplementation:              "implementation",
	ghost.DeviceName:                        "name",
	ghost.DeviceVendor:                      "vendor",
	ghost.DeviceDriverVersion:               "driver_version",
	ghost.DeviceSubUnitCount:                "sub_unit_count",
	ghost.DeviceUnifiedMemory:               "unified_memory",
	ghost.DeviceTotalMemory:                 "total_memory",
	ghost.DeviceLocalMemory:                 "local_memory",
	ghost.DeviceMaxThreadsPerGroup:          "max_threads_per_group",
	ghost.DeviceMaxWorkSizePerDim:           "max_work_size_per_dim",
	ghost.DeviceMaxRegisters:                "max_registers",
	ghost.DeviceMaxImageSize1D:              "max_image_size_1d",
	ghost.DeviceMaxImageSize2D:              "max_image_size_2d",
	ghost.DeviceMaxImageSize3D:              "max_image_size_3d",
	ghost.DeviceImageAlignment:              "image_alignment",
	ghost.DeviceSupportsMappedBuffer:        "supports_mapped_buffer",
	ghost.DeviceSupportsProgramConstants:    "supports_program_constants",
	ghost.DeviceSubgroupWidth:               "subgroup_width",
	ghost.DeviceSupportsSubgroup:            "supports_subgroup",
	ghost.DeviceSupportsSubgroupShuffle:     "supports_subgroup_shuffle",
	ghost.DeviceSupportsImageIntFiltering:   "supports_image_int_filtering",
	ghost.DeviceSupportsImageFloatFiltering: "supports_image_float_filtering",
}

// attrOrder keeps the printed order stable and readable instead of map
// iteration order.
var attrOrder = []ghost.DeviceAttributeID{
	ghost.DeviceImplementation,
	ghost.DeviceName,
	ghost.DeviceVendor,
	ghost.DeviceDriverVersion,
	ghost.DeviceSubUnitCount,
	ghost.DeviceUnifiedMemory,
	ghost.DeviceTotalMemory,
	ghost.DeviceLocalMemory,
	ghost.DeviceMaxThreadsPerGroup,
	ghost.DeviceMaxWorkSizePerDim,
	ghost.DeviceMaxRegisters,
	ghost.DeviceMaxImageSize1D,
	ghost.DeviceMaxImageSize2D,
	ghost.DeviceMaxImageSize3D,
	ghost.DeviceImageAlignment,
	ghost.DeviceSupportsMappedBuffer,
	ghost.DeviceSupportsProgramConstants,
	ghost.DeviceSubgroupWidth,
	ghost.DeviceSupportsSubgroup,
	ghost.DeviceSupportsSubgroupShuffle,
	ghost.DeviceSupportsImageIntFiltering,
	ghost.DeviceSupportsImageFloatFiltering,
}

func formatAttribute(a attribute.Attribute) string {
	switch a.Type() {
	case attribute.String:
		return a.AsString()
	case attribute.UInt:
		return fmt.Sprintf("%d", a.AsUInt64())
	case attribute.Int:
		return fmt.Sprintf("%d", a.AsInt64())
	case attribute.Float:
		return fmt.Sprintf("%g", a.AsFloat64())
	case attribute.Bool:
		return fmt.Sprintf("%t", a.AsBool())
	default:
		return "<unsupported>"
	}
}

func openDevice(kind string, cachePath string, ordinal, platformIndex, deviceIndex int) (*ghost.Device, error) {
	cfg := ghostcfg.DefaultConfig()
	cfg.CachePath = cachePath

	switch kind {
	case "cpu":
		return ghost.NewCPUDevice(cfg)
	case "cuda":
		return ghost.NewCUDADevice(int32(ordinal), ghost.SharedContext{}, cfg)
	case "opencl":
		return ghost.NewOpenCLDevice(platformIndex, deviceIndex, ghost.SharedContext{}, cfg)
	case "metal":
		return ghost.NewMetalDevice(ghost.SharedContext{}, cfg)
	case "auto":
		for _, k := range []string{"cuda", "metal", "opencl", "cpu"} {
			if d, err := openDevice(k, cachePath, ordinal, platformIndex, deviceIndex); err == nil {
				return d, nil
			}
		}
		return nil, fmt.Errorf("ghostinfo: no backend available")
	default:
		return nil, fmt.Errorf("ghostinfo: unknown backend %q", kind)
	}
}

func main() {
	backendFlag := flag.String("backend", "auto", "backend to open: cpu, cuda, metal, opencl, or auto")
	cacheFlag := flag.String("cache", "", "binary cache directory (empty disables the cache)")
	ordinalFlag := flag.Int("cuda-ordinal", 0, "CUDA device ordinal")
	platformFlag := flag.Int("opencl-platform", 0, "OpenCL platform index")
	deviceFlag := flag.Int("opencl-device", 0, "OpenCL device index")
	flag.Parse()

	device, err := openDevice(*backendFlag, *cacheFlag, *ordinalFlag, *platformFlag, *deviceFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ghostinfo:", err)
		os.Exit(1)
	}
	defer device.Close()

	fmt.Printf("backend: %s\n", device.Kind())
	for _, id := range attrOrder {
		fmt.Printf("  %-30s %s\n", attrNames[id], formatAttribute(device.GetAttribute(id)))
	}
}
