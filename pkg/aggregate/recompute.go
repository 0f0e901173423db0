package aggregate

import (
	"fmt"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/hierarchy"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/records"
	"github.com/matzehuels/crashviz/pkg/render/colorscale"
	"github.com/matzehuels/crashviz/pkg/render/stack"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

// Inputs is everything one recompute pass depends on.
type Inputs struct {
	Records   []records.Record
	Selection interact.Selection
	Bounds    treemap.Rect
	Padding   float64
}

// Outputs is the complete chart state for one pass.
type Outputs struct {
	Categories []string
	Series     []stack.Point
	YMax       float64
	XMin, XMax int
	HasSeries  bool

	Hierarchy   *hierarchy.Node
	Treemap     *treemap.Node
	Groups      []treemap.Group
	ColorDomain colorscale.Domain

	Selection interact.Selection

	// Empty is set when the selected cause has no location data. The
	// treemap fields are then nil and Message explains why.
	Empty   bool
	Message string
}

// Recompute runs a full pass with the default pipeline.
func Recompute(in Inputs) (Outputs, error) {
	return (*Pipeline)(nil).Recompute(in)
}

// Recompute builds the series for all records and the treemap for the
// selection. Only geometry faults are returned as errors.
func (p *Pipeline) Recompute(in Inputs) (Outputs, error) {
	out := Outputs{
		Categories: records.Categories(in.Records),
		Selection:  in.Selection,
	}
	out.Series = BuildSeries(in.Records, out.Categories)
	out.YMax = stack.MaxY(out.Series)
	out.XMin, out.XMax, out.HasSeries = stack.XExtent(out.Series)

	var root *hierarchy.Node
	if cause, ok := in.Selection.Cause(); ok {
		h, err := p.BuildDetailHierarchy(in.Records, cause)
		if apperrors.IsNotFound(err) {
			out.Empty = true
			out.Message = apperrors.UserMessage(err)
			return out, nil
		}
		if err != nil {
			return Outputs{}, err
		}
		root = h
	} else {
		root = BuildAggregateHierarchy(in.Records)
	}

	laid, err := treemap.Layout(root, in.Bounds, in.Padding)
	if err != nil {
		return Outputs{}, fmt.Errorf("treemap: %w", err)
	}
	out.Hierarchy = root
	out.Treemap = laid
	out.Groups = laid.Groups()
	out.ColorDomain = colorscale.BuildDomain(laid.Leaves())
	return out, nil
}
