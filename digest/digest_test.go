package digest

import "testing"

func TestAssociativeUpdate(t *testing.T) {
	d := New()
	d.Update([]byte("ab"))
	d.Update([]byte("cd"))
	got := d.Hex()
	want := "81fe8bfe87576c3ecb22426f8e57847382917acf"
	if got != want {
		t.Errorf("Hex() = %q, want %q", got, want)
	}
}

func TestSumLength(t *testing.T) {
	d := New()
	d.Update([]byte("hello"))
	sum := d.Sum()
	if len(sum) != Length {
		t.Errorf("Sum() length = %d, want %d", len(sum), Length)
	}
}

func TestUpdateAfterFinalizePanics(t *testing.T) {
	d := New()
	d.Update([]byte("x"))
	d.Sum()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on Update after finalize")
		}
	}()
	d.Update([]byte("y"))
}

func TestConcatenationEquivalence(t *testing.T) {
	split := New()
	split.Update([]byte("foo"))
	split.Update([]byte("bar"))
	whole := New()
	whole.Update([]byte("foobar"))
	if split.Hex() != whole.Hex() {
		t.Errorf("split vs whole digest mismatch")
	}
}
