//go:build ghost_opencl

package opencl

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloat32sToBytesWidensTo4Lanes(t *testing.T) {
	buf := float32sToBytes([4]float32{1, 2, 0, 0})
	if len(buf) != 16 {
		t.Fatalf("len(buf) = %d, want 16", len(buf))
	}
	got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	if got != 1 {
		t.Errorf("lane 0 = %v, want 1", got)
	}
	got = math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	if got != 2 {
		t.Errorf("lane 1 = %v, want 2", got)
	}
}

func TestInt32sToBytes(t *testing.T) {
	buf := int32sToBytes([4]int32{-1, 0, 5, 0})
	if got := int32(binary.LittleEndian.Uint32(buf[0:4])); got != -1 {
		t.Errorf("lane 0 = %d, want -1", got)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[8:12])); got != 5 {
		t.Errorf("lane 2 = %d, want 5", got)
	}
}
