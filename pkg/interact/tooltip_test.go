package interact

import (
	"slices"
	"testing"

	"github.com/matzehuels/crashviz/pkg/render/stack"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

func TestPlaceTooltip(t *testing.T) {
	viewport := Size{W: 1000, H: 600}
	size := Size{W: 200, H: 50}

	tests := []struct {
		name    string
		pointer Point
		want    Point
	}{
		{"default up-right", Point{50, 300}, Point{60, 240}},
		{"flip left at right edge", Point{950, 300}, Point{740, 240}},
		{"flip below at top edge", Point{50, 30}, Point{60, 40}},
		{"both flips", Point{950, 30}, Point{740, 40}},
		{"exact fit keeps default", Point{790, 60}, Point{800, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlaceTooltip(tt.pointer, size, viewport); got != tt.want {
				t.Errorf("PlaceTooltip(%v) = %v, want %v", tt.pointer, got, tt.want)
			}
		})
	}
}

func TestPlaceTooltipRightEdgeBound(t *testing.T) {
	got := PlaceTooltip(Point{950, 300}, Size{W: 200, H: 50}, Size{W: 1000, H: 600})
	if got.X > 800 {
		t.Errorf("x = %v, want <= 800", got.X)
	}
}

func TestPlaceTooltipTinyViewportMayOverflow(t *testing.T) {
	got := PlaceTooltip(Point{5, 5}, Size{W: 200, H: 50}, Size{W: 20, H: 20})
	if got != (Point{-205, 15}) {
		t.Errorf("PlaceTooltip() = %v, want {-205 15}", got)
	}
}

func TestMetricsMeasure(t *testing.T) {
	m := Metrics{CharWidth: 10, LineHeight: 20, Padding: 5}
	got := m.Measure([]string{"abc", "abcdé"})
	if got != (Size{W: 60, H: 50}) {
		t.Errorf("Measure() = %v, want {60 50}", got)
	}
}

func TestTreemapTooltip(t *testing.T) {
	leaf := &treemap.Node{Name: "No survivors", Value: 3, Fatalities: 120}
	got := TreemapTooltip(leaf, "Weather")
	want := []string{"Weather", "No survivors: 3 incidents", "Fatalities: 120"}
	if !slices.Equal(got.Lines, want) {
		t.Errorf("Lines = %q, want %q", got.Lines, want)
	}

	single := TreemapTooltip(&treemap.Node{Name: "Survivors", Value: 1}, "")
	want = []string{"Survivors: 1 incident", "Fatalities: 0"}
	if !slices.Equal(single.Lines, want) {
		t.Errorf("Lines = %q, want %q", single.Lines, want)
	}
}

func TestSeriesTooltip(t *testing.T) {
	got := SeriesTooltip(Interval{Start: 1990, End: 2000}, []stack.Total{
		{Category: "Weather", Count: 4},
		{Category: "Sabotage", Count: 0},
		{Category: "Mechanical", Count: 2},
	})
	want := []string{"1990-1999", "Weather: 4", "Mechanical: 2", "Total: 6 incidents"}
	if !slices.Equal(got.Lines, want) {
		t.Errorf("Lines = %q, want %q", got.Lines, want)
	}
}

func TestTooltipPlace(t *testing.T) {
	tip := Tooltip{Lines: []string{"abcdefghij"}}
	m := Metrics{CharWidth: 10, LineHeight: 20, Padding: 0}
	got := tip.Place(Point{950, 300}, Size{W: 1000, H: 600}, m)
	if got.X != 840 || got.Y != 270 {
		t.Errorf("Place() = (%v, %v), want (840, 270)", got.X, got.Y)
	}
	if tip.X != 0 {
		t.Error("Place should not modify the receiver")
	}
}
