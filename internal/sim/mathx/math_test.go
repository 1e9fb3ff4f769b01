package mathx

import "testing"

func TestFloorDivMod(t *testing.T) {
	if got := FloorDiv(-1, 60); got != -1 {
		t.Fatalf("FloorDiv(-1,60): got %d want -1", got)
	}
	if got := Mod(-1, 60); got != 59 {
		t.Fatalf("Mod(-1,60): got %d want 59", got)
	}
	if got := Mod(61, 60); got != 1 {
		t.Fatalf("Mod(61,60): got %d want 1", got)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{{2.5, 3}, {2.49, 2}, {-2.5, -2}, {-2.51, -3}, {0, 0}}
	for _, c := range cases {
		if got := Round(c.in); got != c.want {
			t.Fatalf("Round(%v): got %d want %d", c.in, got, c.want)
		}
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(42), NewRNG(42)
	for i := 0; i < 100; i++ {
		if a.Uint64() != b.Uint64() {
			t.Fatalf("streams diverged at %d", i)
		}
	}
	c, d := NewRNG(43), NewRNG(42)
	if d.Uint64() == c.Uint64() {
		t.Fatalf("different seeds produced the same first value")
	}
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		if f := r.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
		if v := r.Between(3, 5); v < 3 || v > 5 {
			t.Fatalf("Between out of range: %d", v)
		}
		if v := r.Intn(4); v < 0 || v >= 4 {
			t.Fatalf("Intn out of range: %d", v)
		}
	}
	if r.Intn(0) != 0 {
		t.Fatalf("Intn(0) should be 0")
	}
}

func TestRNGResumesFromState(t *testing.T) {
	r := NewRNG(9)
	r.Uint64()
	saved := r
	want := r.Uint64()
	if got := saved.Uint64(); got != want {
		t.Fatalf("resumed stream: got %d want %d", got, want)
	}
}
