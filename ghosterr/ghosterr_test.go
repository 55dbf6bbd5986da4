package ghosterr

import (
	"errors"
	"testing"
)

func TestIsUnsupported(t *testing.T) {
	err := Unsupported("cpu", "loadLibraryFromText")
	if !IsUnsupported(err) {
		t.Errorf("IsUnsupported() = false, want true")
	}
	if IsBuild(err) {
		t.Errorf("IsBuild() = true, want false")
	}
}

func TestWrappedUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := IO("", "load", inner)
	if !errors.Is(err, inner) {
		t.Errorf("errors.Is should find wrapped inner error")
	}
}

func TestBuildErrorIncludesLog(t *testing.T) {
	err := Build("opencl", "loadLibraryFromText", "error: undefined symbol foo")
	if err.Error() == "" {
		t.Fatal("Error() should not be empty")
	}
	if !IsBuild(err) {
		t.Errorf("IsBuild() = false, want true")
	}
}
