package attribute

import "testing"

func TestIntWidening(t *testing.T) {
	a := NewInt32(1, 2, 3)
	if a.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", a.Count())
	}
	want32 := [4]int32{1, 2, 3, 0}
	if got := a.Int32Array(); got != want32 {
		t.Errorf("Int32Array() = %v, want %v", got, want32)
	}
	want64 := [4]int64{1, 2, 3, 0}
	if got := a.Int64Array(); got != want64 {
		t.Errorf("Int64Array() = %v, want %v", got, want64)
	}
}

func TestNarrowing(t *testing.T) {
	a := NewFloat64(1.5, 2.5)
	if got, want := a.AsFloat32(), float32(1.5); got != want {
		t.Errorf("AsFloat32() = %v, want %v", got, want)
	}
	if got, want := a.Float32Array()[1], float32(2.5); got != want {
		t.Errorf("Float32Array()[1] = %v, want %v", got, want)
	}
}

func TestValidAndType(t *testing.T) {
	var zero Attribute
	if zero.Valid() {
		t.Errorf("zero value should not be Valid")
	}
	if zero.Type() != Unknown {
		t.Errorf("zero value Type() = %v, want Unknown", zero.Type())
	}
	s := NewString("hi")
	if !s.Valid() || s.Type() != String || s.AsString() != "hi" {
		t.Errorf("NewString round-trip failed: %+v", s)
	}
}

func TestTypeMismatchReadsZero(t *testing.T) {
	f := NewFloat32(3.14)
	if f.AsString() != "" {
		t.Errorf("AsString() on Float variant should be empty, got %q", f.AsString())
	}
	if f.AsBuffer() != nil {
		t.Errorf("AsBuffer() on Float variant should be nil")
	}
}

func TestLocalMem(t *testing.T) {
	a := NewLocalMem(256)
	if a.Type() != LocalMem || a.Count() != 1 {
		t.Fatalf("LocalMem() produced wrong type/count: %+v", a)
	}
	if a.LocalMemBytes() != 256 {
		t.Errorf("LocalMemBytes() = %d, want 256", a.LocalMemBytes())
	}
}

func TestBufferAndImageRefsDoNotOwn(t *testing.T) {
	type fakeBuffer struct{ id int }
	buf := &fakeBuffer{id: 7}
	a := NewBufferRef(buf)
	got, ok := a.AsBuffer().(*fakeBuffer)
	if !ok || got != buf {
		t.Errorf("AsBuffer() round-trip failed")
	}
}

func TestCountClamp(t *testing.T) {
	a := NewInt32(1, 2, 3, 4, 5)
	if a.Count() != 4 {
		t.Errorf("Count() = %d, want 4 (clamped)", a.Count())
	}
}

func TestBoolVariant(t *testing.T) {
	a := NewBool(true, false, true)
	want := [4]bool{true, false, true, false}
	if got := a.BoolArray(); got != want {
		t.Errorf("BoolArray() = %v, want %v", got, want)
	}
}
