package api

import (
	"github.com/matzehuels/crashviz/pkg/aggregate"
	"github.com/matzehuels/crashviz/pkg/cache"
	"github.com/matzehuels/crashviz/pkg/chart"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/pipeline"
	"github.com/matzehuels/crashviz/pkg/render/sink"
)

// state is the chart computed for one selection, with its hit indexes.
type state struct {
	sel   interact.Selection
	out   aggregate.Outputs
	chart *chart.Chart
	hash  string

	treemap *interact.TreemapIndex
	series  *interact.SeriesIndex
	xscale  interact.XScale
}

// current returns the state for the controller's selection, recomputing it
// when the selection changed. Callers hold s.mu.
func (s *Server) current() (*state, error) {
	sel := s.ctrl.Selection()
	if s.state != nil && s.state.sel == sel {
		return s.state, nil
	}

	opts := s.pipelineOptions()
	out, err := pipeline.Recompute(s.recs, sel, opts)
	if err != nil {
		return nil, err
	}
	c := chart.FromOutputs(out, opts.Width, opts.Height)
	data, err := chart.Marshal(c)
	if err != nil {
		return nil, err
	}

	st := &state{
		sel:     sel,
		out:     out,
		chart:   c,
		hash:    cache.Hash(data),
		treemap: interact.NewTreemapIndex(out.Treemap),
		series:  interact.NewSeriesIndexFor(out.Series),
		xscale:  sink.SeriesPlot(c.Width, c.Height).XScale(c),
	}
	s.state = st
	return st, nil
}

func (s *Server) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Width:   s.opts.Width,
		Height:  s.opts.Height,
		Padding: s.opts.Padding,
		Style:   s.opts.Style,
		Logger:  s.opts.Logger,
	}
	if cause, ok := s.ctrl.Selection().Cause(); ok {
		opts.Cause = cause
	}
	opts.SetDefaults()
	return opts
}

// viewport is the size tooltips are kept inside.
func (st *state) viewport() interact.Size {
	return interact.Size{W: st.chart.Width, H: st.chart.Height}
}
