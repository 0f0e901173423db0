package pipeline

import (
	"fmt"

	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(c *chart.Chart, opts Options) (map[string][]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("render: nil chart")
	}
	svgOpts := sink.StyleOptions(opts.Style)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := RenderFormat(c, format, svgOpts...)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(c *chart.Chart, format string, svgOpts ...sink.SVGOption) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := sink.RenderJSON(c)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		return data, nil
	case FormatSeriesSVG:
		return sink.RenderSeriesSVG(c, svgOpts...), nil
	case FormatTreemapSVG:
		return sink.RenderTreemapSVG(c, svgOpts...), nil
	}
	return nil, ValidateFormat(format)
}

// RenderFromChartData renders output from serialized chart data.
// This is useful when the chart was computed elsewhere (e.g., cached).
func RenderFromChartData(data []byte, opts Options) (map[string][]byte, error) {
	c, err := chart.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse chart: %w", err)
	}
	return Render(c, opts)
}
