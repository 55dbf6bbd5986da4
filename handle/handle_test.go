package handle

import "testing"

type releaseCounter struct {
	released *int
}

func (r releaseCounter) Release(h int) {
	if h != 0 {
		*r.released++
	}
}

func TestAdoptAndReset(t *testing.T) {
	var n int
	tr := releaseCounter{released: &n}
	h := Adopt[int](tr, 42)
	if !h.Valid() || h.Get() != 42 {
		t.Fatalf("Adopt produced wrong state: %+v", h)
	}
	h.Reset()
	if n != 1 {
		t.Errorf("Release called %d times, want 1", n)
	}
	if h.Valid() {
		t.Errorf("handle should not be Valid after Reset")
	}
	// Second reset must not double-release.
	h.Reset()
	if n != 1 {
		t.Errorf("Release called %d times after second Reset, want 1 (no double-release)", n)
	}
}

func TestReleaseOwnershipSuppressesDestructor(t *testing.T) {
	var n int
	tr := releaseCounter{released: &n}
	h := Adopt[int](tr, 7)
	raw := h.ReleaseOwnership()
	if raw != 7 {
		t.Errorf("ReleaseOwnership() = %d, want 7", raw)
	}
	h.Reset()
	if n != 0 {
		t.Errorf("Release should not be called after ReleaseOwnership, got %d calls", n)
	}
}

func TestOutDestroysPriorContents(t *testing.T) {
	var n int
	tr := releaseCounter{released: &n}
	h := Adopt[int](tr, 1)
	p := h.Out()
	if n != 1 {
		t.Errorf("Out() should release prior contents, got %d releases", n)
	}
	*p = 99
	h.Replace(*p)
	if h.Get() != 99 {
		t.Errorf("Get() = %d, want 99", h.Get())
	}
}

func TestReplaceReleasesPrevious(t *testing.T) {
	var n int
	tr := releaseCounter{released: &n}
	h := Adopt[int](tr, 5)
	h.Replace(6)
	if n != 1 {
		t.Errorf("Replace should release previous owned handle, got %d releases", n)
	}
	if h.Get() != 6 {
		t.Errorf("Get() = %d, want 6", h.Get())
	}
}

type retainingTraits struct {
	retained *int
	released *int
}

func (r retainingTraits) Release(h int) {
	if h != 0 {
		*r.released++
	}
}

func (r retainingTraits) Retain(h int) int {
	*r.retained++
	return h
}

func TestWrapSharedRetainsWhenSupported(t *testing.T) {
	var retained, released int
	tr := retainingTraits{retained: &retained, released: &released}
	h := WrapShared[int](tr, 3)
	if retained != 1 {
		t.Errorf("Retain called %d times, want 1", retained)
	}
	h.Reset()
	if released != 1 {
		t.Errorf("Release called %d times, want 1", released)
	}
}

func TestWrapSharedWithoutRetainerIsNonOwning(t *testing.T) {
	var n int
	tr := releaseCounter{released: &n}
	h := WrapShared[int](tr, 3)
	if h.Valid() {
		t.Errorf("non-retaining WrapShared should not be owning")
	}
	h.Reset()
	if n != 0 {
		t.Errorf("Release should not be called for a non-owning handle, got %d", n)
	}
}
