package treemap

import "testing"

func TestRectDimensions(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 60, Y1: 70}
	if r.Width() != 50 {
		t.Errorf("Width() = %v, want 50", r.Width())
	}
	if r.Height() != 50 {
		t.Errorf("Height() = %v, want 50", r.Height())
	}
	if r.Area() != 2500 {
		t.Errorf("Area() = %v, want 2500", r.Area())
	}
	if r.CenterX() != 35 || r.CenterY() != 45 {
		t.Errorf("Center = (%v, %v), want (35, 45)", r.CenterX(), r.CenterY())
	}
}

func TestRectContainsHalfOpen(t *testing.T) {
	a := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}
	b := Rect{X0: 10, Y0: 0, X1: 20, Y1: 10}

	tests := []struct {
		name   string
		x, y   float64
		inA    bool
		inB    bool
		reason string
	}{
		{"inside a", 5, 5, true, false, ""},
		{"shared edge", 10, 5, false, true, "edge belongs to the right rectangle"},
		{"origin", 0, 0, true, false, ""},
		{"outside both", 25, 5, false, false, ""},
		{"bottom edge", 5, 10, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Contains(tt.x, tt.y); got != tt.inA {
				t.Errorf("a.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.inA)
			}
			if got := b.Contains(tt.x, tt.y); got != tt.inB {
				t.Errorf("b.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.inB)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"adjacent", Rect{10, 0, 20, 10}, false},
		{"overlapping", Rect{5, 5, 15, 15}, true},
		{"contained", Rect{2, 2, 3, 3}, true},
		{"zero size inside", Rect{5, 5, 5, 5}, false},
		{"zero width across", Rect{5, -5, 5, 15}, false},
		{"disjoint", Rect{20, 20, 30, 30}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps() = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.b.Overlaps(a); got != tt.want {
			t.Errorf("%s: reversed Overlaps() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{0, 0, 10, 4}
	got := r.Inset(1)
	if got != (Rect{1, 1, 9, 3}) {
		t.Errorf("Inset(1) = %+v", got)
	}

	collapsed := r.Inset(3)
	if collapsed.Height() != 0 || collapsed.Y0 != 2 {
		t.Errorf("Inset(3) = %+v, want zero height at y=2", collapsed)
	}
	if collapsed.Width() != 4 {
		t.Errorf("Inset(3).Width() = %v, want 4", collapsed.Width())
	}
}

func TestRectUnionIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 20, 8}
	if got := a.Union(b); got != (Rect{0, 0, 20, 10}) {
		t.Errorf("Union() = %+v", got)
	}
	if got := a.Intersect(b); got != (Rect{5, 5, 10, 8}) {
		t.Errorf("Intersect() = %+v", got)
	}
	far := Rect{30, 30, 40, 40}
	if got := a.Intersect(far); got.Width() != 0 || got.Height() != 0 {
		t.Errorf("Intersect(far) = %+v, want zero size", got)
	}
}

func TestRectRound(t *testing.T) {
	got := Rect{0.4, 0.5, 9.49, 9.51}.Round()
	if got != (Rect{0, 1, 9, 10}) {
		t.Errorf("Round() = %+v", got)
	}
}
