package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		output  string
		input   string
		want    map[string]string
	}{
		{
			name:    "single format keeps output",
			formats: []string{"svg-treemap"},
			output:  "out/chart.svg",
			want:    map[string]string{"svg-treemap": "out/chart.svg"},
		},
		{
			name:    "multiple formats derive from output",
			formats: []string{"json", "svg-series"},
			output:  "out/chart.svg",
			want:    map[string]string{"json": "out/chart.json", "svg-series": "out/chart.series.svg"},
		},
		{
			name:    "derive from input",
			formats: []string{"svg-treemap"},
			input:   "data/crashes.csv",
			want:    map[string]string{"svg-treemap": "data/crashes.treemap.svg"},
		},
		{
			name:    "no input or output",
			formats: []string{"json"},
			want:    map[string]string{"json": "crashviz.json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.output, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("path[%s] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ output, input, want string }{
		{"", "crashes.csv", "crashes"},
		{"out.treemap.svg", "", "out"},
		{"out.series.svg", "", "out"},
		{"out.json", "", "out"},
		{"out", "", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifactsMissingFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart")
	_, err := writeArtifacts(map[string][]byte{"json": []byte("{}")}, []string{"json", "svg-series"}, out, "")
	if err == nil || !strings.Contains(err.Error(), "svg-series") {
		t.Fatalf("err = %v, want missing svg-series", err)
	}
}

func TestRenderCommand(t *testing.T) {
	csv := setupEnv(t, "[cache]\nbackend = \"none\"\n")
	base := filepath.Join(t.TempDir(), "nested", "chart")

	_, err := runCLI(t, "render", csv, "-f", "json,svg-series,svg-treemap", "-o", base, "--style", "interactive")
	if err != nil {
		t.Fatal(err)
	}

	treemap, err := os.ReadFile(base + ".treemap.svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(treemap), `class="leaf"`) {
		t.Error("treemap SVG has no leaves")
	}
	series, err := os.ReadFile(base + ".series.svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(series), `data-category="Weather"`) {
		t.Error("series SVG misses the Weather band")
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	var chart struct {
		Categories []string `json:"categories"`
		Selection  *string  `json:"selection"`
	}
	if err := json.Unmarshal(data, &chart); err != nil {
		t.Fatal(err)
	}
	if strings.Join(chart.Categories, ",") != "Weather,Mechanical,Fire" {
		t.Errorf("categories = %v", chart.Categories)
	}
	if chart.Selection != nil {
		t.Errorf("selection = %q, want aggregate", *chart.Selection)
	}
}

func TestRenderCommandCause(t *testing.T) {
	csv := setupEnv(t, "[cache]\nbackend = \"none\"\n")
	out := filepath.Join(t.TempDir(), "weather.json")

	if _, err := runCLI(t, "render", csv, "--cause", "Weather", "-f", "json", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var chart struct {
		Selection *string `json:"selection"`
		Treemap   struct {
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		} `json:"treemap"`
	}
	if err := json.Unmarshal(data, &chart); err != nil {
		t.Fatal(err)
	}
	if chart.Selection == nil || *chart.Selection != "Weather" {
		t.Fatalf("selection = %v, want Weather", chart.Selection)
	}
	var groups []string
	for _, g := range chart.Treemap.Children {
		groups = append(groups, g.Name)
	}
	if strings.Join(groups, ",") != "Alaska,Peru" {
		t.Errorf("detail groups = %v, want [Alaska Peru]", groups)
	}
}

func TestRenderCommandRerender(t *testing.T) {
	csv := setupEnv(t, "[cache]\nbackend = \"none\"\n")
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "chart.json")
	svgPath := filepath.Join(dir, "again.svg")

	if _, err := runCLI(t, "render", csv, "-f", "json", "-o", chartPath); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "render", "--chart", chartPath, "-o", svgPath); err != nil {
		t.Fatal(err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<svg") {
		t.Errorf("re-rendered output is not SVG: %.40s", svg)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	csv := setupEnv(t, "[cache]\nbackend = \"none\"\n")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"render", csv, "-f", "png"}, "invalid format"},
		{"style", []string{"render", csv, "--style", "handdrawn"}, "invalid style"},
		{"size", []string{"render", csv, "--width", "0"}, "INVALID_GEOMETRY"},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "none.csv")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
