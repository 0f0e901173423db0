package aggregate

import (
	"fmt"
	"slices"
	"testing"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/hierarchy"
	"github.com/matzehuels/crashviz/pkg/observability"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/stack"
)

func scenario() []records.Record {
	return []records.Record{
		{Year: 2000, Cause: "A", Location: "X", Fatalities: 5, HasSurvivors: false},
		{Year: 2000, Cause: "B", Location: "Y", Fatalities: 0, HasSurvivors: true},
	}
}

func sample() []records.Record {
	return []records.Record{
		{Year: 1995, Cause: "Weather", Location: "Alaska", Fatalities: 3, HasSurvivors: true},
		{Year: 1995, Cause: "Mechanical", Location: "Texas", Fatalities: 12},
		{Year: 1997, Cause: "Weather", Location: "Alaska", Fatalities: 40},
		{Year: 2003, Cause: "Weather", Location: "Nepal", Fatalities: 18},
		{Year: 2003, Cause: "Terrorism", Location: "New York", Fatalities: 92},
		{Year: 2003, Cause: "Mechanical", Location: "Texas", Fatalities: 0, HasSurvivors: true},
	}
}

func TestScenarioSeries(t *testing.T) {
	recs := scenario()
	cats := records.Categories(recs)
	if !slices.Equal(cats, []string{"A", "B"}) {
		t.Fatalf("Categories() = %v, want [A B]", cats)
	}

	points := BuildSeries(recs, cats)
	if len(points) != 1 || points[0].Year != 2000 {
		t.Fatalf("BuildSeries() = %+v, want one point for 2000", points)
	}
	want := []stack.Band{
		{Category: "A", Y0: 0, Y1: 1},
		{Category: "B", Y0: 1, Y1: 2},
	}
	if !slices.Equal(points[0].Bands, want) {
		t.Errorf("Bands = %+v, want %+v", points[0].Bands, want)
	}
}

func TestScenarioAggregateHierarchy(t *testing.T) {
	root := BuildAggregateHierarchy(scenario())
	if root.Value != 2 || len(root.Children) != 2 {
		t.Fatalf("root = %+v, want value 2 with two causes", root)
	}

	a, b := root.Children[0], root.Children[1]
	if a.Name != "A" || b.Name != "B" {
		t.Fatalf("cause order = [%s %s], want [A B]", a.Name, b.Name)
	}
	checkLeaves(t, a, []*hierarchy.Node{hierarchy.Leaf(NoSurvivorsLabel, 1, 5)})
	checkLeaves(t, b, []*hierarchy.Node{hierarchy.Leaf(SurvivorsLabel, 1, 0)})
}

func checkLeaves(t *testing.T, n *hierarchy.Node, want []*hierarchy.Node) {
	t.Helper()
	if len(n.Children) != len(want) {
		t.Fatalf("%s children = %d, want %d", n.Name, len(n.Children), len(want))
	}
	for i, w := range want {
		got := n.Children[i]
		if got.Name != w.Name || got.Value != w.Value || got.Fatalities != w.Fatalities {
			t.Errorf("%s child %d = {%s %v %d}, want {%s %v %d}",
				n.Name, i, got.Name, got.Value, got.Fatalities, w.Name, w.Value, w.Fatalities)
		}
	}
}

func TestBuildSeriesIgnoresUnlistedCauses(t *testing.T) {
	points := BuildSeries(sample(), []string{"Weather"})
	if len(points) != 3 {
		t.Fatalf("len = %d, want 3", len(points))
	}
	for _, p := range points {
		if len(p.Bands) != 1 || p.Bands[0].Category != "Weather" {
			t.Errorf("year %d bands = %+v", p.Year, p.Bands)
		}
	}
	if points[0].Top() != 1 || points[2].Top() != 1 {
		t.Errorf("tops = %v, %v", points[0].Top(), points[2].Top())
	}
}

func TestBuildSeriesStacksToYearTotals(t *testing.T) {
	recs := sample()
	points := BuildSeries(recs, records.Categories(recs))

	perYear := map[int]int{}
	for _, r := range recs {
		perYear[r.Year]++
	}
	for _, p := range points {
		for k := 1; k < len(p.Bands); k++ {
			if p.Bands[k].Y0 != p.Bands[k-1].Y1 {
				t.Errorf("year %d: band %d not contiguous", p.Year, k)
			}
		}
		if p.Bands[0].Y0 != 0 {
			t.Errorf("year %d: first band starts at %v", p.Year, p.Bands[0].Y0)
		}
		if p.Top() != float64(perYear[p.Year]) {
			t.Errorf("year %d: top = %v, want %d", p.Year, p.Top(), perYear[p.Year])
		}
	}
	if len(points) != len(perYear) {
		t.Errorf("points = %d, want %d (sparse years absent)", len(points), len(perYear))
	}
}

func TestAggregateHierarchyOrderAndBuckets(t *testing.T) {
	root := BuildAggregateHierarchy(sample())
	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	if want := []string{"Weather", "Mechanical", "Terrorism"}; !slices.Equal(names, want) {
		t.Errorf("causes = %v, want %v", names, want)
	}

	weather := root.Children[0]
	checkLeaves(t, weather, []*hierarchy.Node{
		hierarchy.Leaf(SurvivorsLabel, 1, 3),
		hierarchy.Leaf(NoSurvivorsLabel, 2, 58),
	})
	if root.Value != 6 {
		t.Errorf("root value = %v, want 6", root.Value)
	}
}

func TestBuildDetailHierarchy(t *testing.T) {
	recs := sample()
	for _, cause := range records.Categories(recs) {
		t.Run(cause, func(t *testing.T) {
			root, err := BuildDetailHierarchy(recs, cause)
			if err != nil {
				t.Fatal(err)
			}
			var sum float64
			for _, l := range root.Leaves() {
				sum += l.Value
			}
			n := len(records.Filter(recs, cause))
			if sum != float64(n) {
				t.Errorf("leaf sum = %v, want %d", sum, n)
			}
			if root.Name != cause {
				t.Errorf("root name = %q, want %q", root.Name, cause)
			}
		})
	}

	root, _ := BuildDetailHierarchy(recs, "Weather")
	var locs []string
	for _, c := range root.Children {
		locs = append(locs, c.Name)
	}
	if !slices.Equal(locs, []string{"Alaska", "Nepal"}) {
		t.Errorf("locations = %v, want [Alaska Nepal]", locs)
	}
}

type recordingHooks struct {
	observability.NoopAggregationHooks
	notFound []string
}

func (h *recordingHooks) OnDetailNotFound(cause string) { h.notFound = append(h.notFound, cause) }

func TestBuildDetailHierarchyNotFound(t *testing.T) {
	hooks := &recordingHooks{}
	p := New(hooks)

	root, err := p.BuildDetailHierarchy(sample(), "Volcano")
	if root != nil {
		t.Errorf("root = %+v, want nil", root)
	}
	if !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if got := apperrors.UserMessage(err); got != "no location data available for Volcano" {
		t.Errorf("UserMessage() = %q", got)
	}
	if !slices.Equal(hooks.notFound, []string{"Volcano"}) {
		t.Errorf("hook saw %v", hooks.notFound)
	}

	if _, err := p.BuildDetailHierarchy(nil, "Weather"); !apperrors.IsNotFound(err) {
		t.Errorf("empty records: err = %v, want NOT_FOUND", err)
	}
}

func TestPackageLevelDetailUsesGlobalHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingHooks{}
	observability.SetAggregationHooks(hooks)

	if _, err := BuildDetailHierarchy(nil, "Volcano"); err == nil {
		t.Fatal("expected error")
	}
	if len(hooks.notFound) != 1 {
		t.Errorf("global hook calls = %d, want 1", len(hooks.notFound))
	}
}

func TestBuildersAreDeterministic(t *testing.T) {
	recs := sample()
	a := fmt.Sprintf("%+v", BuildSeries(recs, records.Categories(recs)))
	b := fmt.Sprintf("%+v", BuildSeries(recs, records.Categories(recs)))
	if a != b {
		t.Error("BuildSeries is not deterministic")
	}
	h1, h2 := BuildAggregateHierarchy(recs), BuildAggregateHierarchy(recs)
	if h1 == h2 || h1.Children[0] == h2.Children[0] {
		t.Error("BuildAggregateHierarchy should return fresh trees")
	}
}
