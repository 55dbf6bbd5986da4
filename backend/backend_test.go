package backend

import "testing"

func TestLaunchArgsCount(t *testing.T) {
	l := NewLaunchArgs().GlobalSize(32).LocalSize(1)
	if got, want := l.Count(0), uint32(32); got != want {
		t.Errorf("Count(0) = %d, want %d", got, want)
	}
	if got, want := l.CountTotal(), uint64(32); got != want {
		t.Errorf("CountTotal() = %d, want %d", got, want)
	}
}

func TestLaunchArgsCeilDiv(t *testing.T) {
	l := NewLaunchArgs().GlobalSize(10, 10).LocalSize(3, 4)
	if got, want := l.Count(0), uint32(4); got != want { // ceil(10/3)=4
		t.Errorf("Count(0) = %d, want %d", got, want)
	}
	if got, want := l.Count(1), uint32(3); got != want { // ceil(10/4)=3
		t.Errorf("Count(1) = %d, want %d", got, want)
	}
	if got, want := l.CountTotal(), uint64(12); got != want {
		t.Errorf("CountTotal() = %d, want %d", got, want)
	}
}

func TestImageDescriptionSizes(t *testing.T) {
	d := ImageDescription{
		Size:     Size3{Width: 4, Height: 4, Depth: 1},
		Channels: 4,
		Type:     UInt8,
		Stride:   Stride2{Row: 16},
	}
	if got, want := d.PixelSize(), 4; got != want {
		t.Errorf("PixelSize() = %d, want %d", got, want)
	}
	if got, want := d.DataSize(), 64; got != want {
		t.Errorf("DataSize() = %d, want %d", got, want)
	}
}
