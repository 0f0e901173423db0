package sink

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/crashviz/pkg/aggregate"
	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/colorscale"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

var sample = []records.Record{
	{Year: 1995, Cause: "Weather", Location: "Alaska", Fatalities: 12},
	{Year: 1998, Cause: "Weather", Location: "Peru", Fatalities: 0, HasSurvivors: true},
	{Year: 2003, Cause: "Mechanical", Location: "Alaska", Fatalities: 80},
	{Year: 2003, Cause: "Human error", Location: "Chile", Fatalities: 3, HasSurvivors: true},
	{Year: 2011, Cause: "Weather", Location: "Peru", Fatalities: 40},
}

func buildChart(t *testing.T, sel interact.Selection) *chart.Chart {
	t.Helper()
	out, err := aggregate.Recompute(aggregate.Inputs{
		Records:   sample,
		Selection: sel,
		Bounds:    treemap.Rect{X1: 600, Y1: 400},
		Padding:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	return chart.FromOutputs(out, 600, 400)
}

// wellFormed fails the test if svg is not parseable XML.
func wellFormed(t *testing.T, svg []byte) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("invalid SVG: %v\n%s", err, svg)
		}
	}
}

func TestRenderSeriesSVG(t *testing.T) {
	c := buildChart(t, interact.Aggregate())
	svg := RenderSeriesSVG(c)
	wellFormed(t, svg)

	s := string(svg)
	for _, cat := range c.Categories {
		if !strings.Contains(s, `data-category="`+cat+`"`) {
			t.Errorf("missing area for %q", cat)
		}
	}
	for _, label := range []string{"1995-1999", "2000-2009", "2010-2011"} {
		if !strings.Contains(s, `data-interval="`+label+`"`) {
			t.Errorf("missing interval %q", label)
		}
	}
	if strings.Contains(s, "<script") {
		t.Error("script should only be embedded with WithInteraction")
	}
	if strings.Contains(s, `class="legend"`) {
		t.Error("legend should only be drawn with WithLegend")
	}
}

func TestRenderSeriesSVGOptions(t *testing.T) {
	c := buildChart(t, interact.Aggregate())
	s := string(RenderSeriesSVG(c, StyleOptions(StyleInteractive)...))
	if !strings.Contains(s, "<script") || !strings.Contains(s, `class="legend"`) {
		t.Error("interactive style should embed script and legend")
	}

	s = string(RenderSeriesSVG(c, WithPalette("#123456")))
	if strings.Count(s, `fill="#123456"`) != len(c.Categories) {
		t.Errorf("palette should color every area")
	}
}

func TestRenderSeriesSVGEmpty(t *testing.T) {
	c := &chart.Chart{Width: 100, Height: 50}
	svg := RenderSeriesSVG(c)
	wellFormed(t, svg)
	if !strings.Contains(string(svg), "no incidents") {
		t.Errorf("got %s", svg)
	}
}

func TestRenderTreemapSVG(t *testing.T) {
	c := buildChart(t, interact.Aggregate())
	svg := RenderTreemapSVG(c, WithInteraction())
	wellFormed(t, svg)

	s := string(svg)
	if got, want := strings.Count(s, `class="leaf"`), len(c.Treemap.Leaves()); got != want {
		t.Errorf("leaves = %d, want %d", got, want)
	}
	if got, want := strings.Count(s, `class="group"`), len(c.Groups); got != want {
		t.Errorf("groups = %d, want %d", got, want)
	}
	dark := colorscale.Reds(1)
	if !strings.Contains(s, `data-fatalities="80"`) || !strings.Contains(s, `fill="`+dark+`"`) {
		t.Error("largest fatality leaf should use the darkest ramp color")
	}
	if !strings.Contains(s, `data-group="Mechanical"`) {
		t.Error("leaves should carry their group")
	}
}

func TestRenderTreemapSVGEmptyDetail(t *testing.T) {
	c := buildChart(t, interact.Detail("Sabotage"))
	svg := RenderTreemapSVG(c)
	wellFormed(t, svg)
	if !strings.Contains(string(svg), "no location data available for Sabotage") {
		t.Errorf("got %s", svg)
	}
}

func TestEscaping(t *testing.T) {
	recs := []records.Record{{Year: 2000, Cause: `Fire & "smoke"`, Location: "<X>", Fatalities: 1}}
	out, err := aggregate.Recompute(aggregate.Inputs{
		Records:   recs,
		Selection: interact.Detail(`Fire & "smoke"`),
		Bounds:    treemap.Rect{X1: 300, Y1: 200},
	})
	if err != nil {
		t.Fatal(err)
	}
	c := chart.FromOutputs(out, 300, 200)
	wellFormed(t, RenderTreemapSVG(c))
	wellFormed(t, RenderSeriesSVG(c, WithLegend()))
}

func TestSeriesPlotScale(t *testing.T) {
	c := buildChart(t, interact.Aggregate())
	p := SeriesPlot(c.Width, c.Height)
	xs := p.XScale(c)
	if got := xs.Apply(float64(c.XMin)); got != p.Left {
		t.Errorf("Apply(XMin) = %v, want %v", got, p.Left)
	}
	if got := xs.Apply(float64(c.XMax)); got != p.Right {
		t.Errorf("Apply(XMax) = %v, want %v", got, p.Right)
	}
	if got := p.Y(c.YMax, c.YMax); got != p.Top {
		t.Errorf("Y(YMax) = %v, want %v", got, p.Top)
	}
	if got := p.Y(1, 0); got != p.Bottom {
		t.Errorf("Y with zero max = %v, want %v", got, p.Bottom)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width float64
		want  string
	}{
		{"Peru", 200, "Peru"},
		{"A very long location name", 66, "A very lo.."},
		{"Longish", 8, "L.."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width, 9); got != tt.want {
			t.Errorf("truncate(%q, %v) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	c := buildChart(t, interact.Detail("Weather"))
	data, err := RenderJSON(c)
	if err != nil {
		t.Fatal(err)
	}
	back, err := chart.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Cause() != "Weather" {
		t.Errorf("Cause() = %q", back.Cause())
	}
}
