package mathx

import (
	"math"
	"testing"
)

func TestNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Fatalf("zero vector normalized to %+v", got)
	}
	n := V(3, 0, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-9 {
		t.Fatalf("expected unit length, got %f", n.Len())
	}
}

func TestClampLen(t *testing.T) {
	v := V(30, 40, 0).ClampLen(5)
	if math.Abs(v.Len()-5) > 1e-9 {
		t.Fatalf("clamped length %f, want 5", v.Len())
	}
	short := V(1, 0, 0).ClampLen(5)
	if short != V(1, 0, 0) {
		t.Fatalf("short vector changed: %+v", short)
	}
}

func TestSectorOf(t *testing.T) {
	tests := []struct {
		p    Vec3
		want Sector
	}{
		{V(0, 0, 0), Sector{0, 0, 0}},
		{V(3199, 1919, 3199), Sector{0, 0, 0}},
		{V(3200, 1920, -1), Sector{1, 1, -1}},
		{V(-6500, -10, 7000), Sector{-3, -1, 2}},
	}
	for _, tt := range tests {
		if got := SectorOf(tt.p, 3200, 0.6); got != tt.want {
			t.Errorf("SectorOf(%+v) = %+v, want %+v", tt.p, got, tt.want)
		}
	}
}

func TestSectorSeedStable(t *testing.T) {
	s := Sector{4, -2, 9}
	if s.Seed(7) != s.Seed(7) {
		t.Fatal("sector seed not deterministic")
	}
	if s.Seed(7) == s.Seed(8) {
		t.Fatal("different world seeds produced the same sector seed")
	}
}
