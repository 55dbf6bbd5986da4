package cuda

import (
	"testing"

	"github.com/gmeeker/ghost/backend"
)

// TestResultError exercises the only part of this package that needs no
// GPU hardware or driver: the CUresult-to-error formatting used throughout
// device.go/stream.go/buffer.go. Everything else in this package talks to
// libcuda over purego and is exercised by integration tests run on CUDA
// hardware, not here — see DESIGN.md.
func TestResultError(t *testing.T) {
	var r result = 2
	if got, want := r.Error(), "cuda driver error 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err := success.ok(); err != nil {
		t.Errorf("success.ok() = %v, want nil", err)
	}
	if err := r.ok(); err == nil {
		t.Errorf("result(2).ok() = nil, want error")
	}
}

// TestCudaArrayFormat exercises the DataType-to-CUarray_format mapping
// createTexObject relies on, independent of any driver call.
func TestCudaArrayFormat(t *testing.T) {
	cases := []struct {
		in   backend.DataType
		want int32
	}{
		{backend.UInt8, cuFormatUnsignedInt8},
		{backend.Int8, cuFormatSignedInt8},
		{backend.UInt16, cuFormatUnsignedInt16},
		{backend.Int16, cuFormatSignedInt16},
		{backend.Float16, cuFormatHalf},
		{backend.Float32, cuFormatFloat},
	}
	for _, c := range cases {
		got, err := cudaArrayFormat(c.in)
		if err != nil {
			t.Errorf("cudaArrayFormat(%v) returned %v, want nil error", c.in, err)
		}
		if got != c.want {
			t.Errorf("cudaArrayFormat(%v) = %#x, want %#x", c.in, got, c.want)
		}
	}
	if _, err := cudaArrayFormat(backend.Float64); err == nil {
		t.Errorf("cudaArrayFormat(Float64) = nil error, want an error (CUDA textures have no double format)")
	}
}
