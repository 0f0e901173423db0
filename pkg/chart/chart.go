package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/crashviz/pkg/aggregate"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/render/colorscale"
	"github.com/matzehuels/crashviz/pkg/render/stack"
	"github.com/matzehuels/crashviz/pkg/render/treemap"
)

// Tooltip and SelectionEvent are part of the wire format.
type (
	Tooltip        = interact.Tooltip
	SelectionEvent = interact.Event
)

// Chart is one computed chart state.
type Chart struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Categories []string      `json:"categories" bson:"categories"`
	Series     []stack.Point `json:"series" bson:"series"`
	YMax       float64       `json:"y_max" bson:"y_max"`
	XMin       int           `json:"x_min" bson:"x_min"`
	XMax       int           `json:"x_max" bson:"x_max"`

	Treemap     *Node      `json:"treemap,omitempty" bson:"treemap,omitempty"`
	Groups      []Group    `json:"groups,omitempty" bson:"groups,omitempty"`
	ColorDomain [2]float64 `json:"color_domain" bson:"color_domain"`

	Selection *string `json:"selection" bson:"selection"`
	Empty     bool    `json:"empty,omitempty" bson:"empty,omitempty"`
	Message   string  `json:"message,omitempty" bson:"message,omitempty"`
}

// Node is a laid-out treemap node.
type Node struct {
	Name       string  `json:"name" bson:"name"`
	Value      float64 `json:"value" bson:"value"`
	Fatalities *int    `json:"fatalities,omitempty" bson:"fatalities,omitempty"`
	X0         float64 `json:"x0" bson:"x0"`
	Y0         float64 `json:"y0" bson:"y0"`
	X1         float64 `json:"x1" bson:"x1"`
	Y1         float64 `json:"y1" bson:"y1"`
	Children   []*Node `json:"children,omitempty" bson:"children,omitempty"`
}

// Group is the box around one depth-1 node's leaves.
type Group struct {
	Name  string  `json:"name" bson:"name"`
	Value float64 `json:"value" bson:"value"`
	X0    float64 `json:"x0" bson:"x0"`
	Y0    float64 `json:"y0" bson:"y0"`
	X1    float64 `json:"x1" bson:"x1"`
	Y1    float64 `json:"y1" bson:"y1"`
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Leaves returns the leaves under n in depth-first order.
func (n *Node) Leaves() []*Node {
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Rect returns the node's rectangle.
func (n *Node) Rect() treemap.Rect {
	return treemap.Rect{X0: n.X0, Y0: n.Y0, X1: n.X1, Y1: n.Y1}
}

// Rect returns the group's rectangle.
func (g Group) Rect() treemap.Rect {
	return treemap.Rect{X0: g.X0, Y0: g.Y0, X1: g.X1, Y1: g.Y1}
}

// Domain returns the color domain.
func (c *Chart) Domain() colorscale.Domain {
	return colorscale.Domain{Min: c.ColorDomain[0], Max: c.ColorDomain[1]}
}

// Cause returns the selected cause, or "" in the aggregate view.
func (c *Chart) Cause() string {
	if c.Selection == nil {
		return ""
	}
	return *c.Selection
}

// GroupOf returns the name of the group containing the leaf at (x, y).
func (c *Chart) GroupOf(x, y float64) string {
	for _, g := range c.Groups {
		if g.Rect().Contains(x, y) {
			return g.Name
		}
	}
	return ""
}

// =============================================================================
// Conversion
// =============================================================================

// FromOutputs converts a recompute result sized width x height.
func FromOutputs(out aggregate.Outputs, width, height float64) *Chart {
	c := &Chart{
		Width:      width,
		Height:     height,
		Categories: out.Categories,
		Series:     out.Series,
		YMax:       out.YMax,
		XMin:       out.XMin,
		XMax:       out.XMax,
		ColorDomain: [2]float64{
			out.ColorDomain.Min, out.ColorDomain.Max,
		},
		Selection: out.Selection.CausePtr(),
		Empty:     out.Empty,
		Message:   out.Message,
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
	if c.Series == nil {
		c.Series = []stack.Point{}
	}
	if out.Treemap != nil {
		c.Treemap = fromTreemap(out.Treemap)
	}
	for _, g := range out.Groups {
		c.Groups = append(c.Groups, Group{
			Name: g.Name, Value: g.Value,
			X0: g.X0, Y0: g.Y0, X1: g.X1, Y1: g.Y1,
		})
	}
	return c
}

// fromTreemap keeps placed nodes only.
func fromTreemap(n *treemap.Node) *Node {
	out := &Node{
		Name:  n.Name,
		Value: n.Value,
		X0:    n.X0, Y0: n.Y0, X1: n.X1, Y1: n.Y1,
	}
	for _, c := range n.Children {
		if c.Placed {
			out.Children = append(out.Children, fromTreemap(c))
		}
	}
	if out.IsLeaf() {
		f := n.Fatalities
		out.Fatalities = &f
	}
	return out
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a chart to pretty-printed JSON.
func Marshal(c *Chart) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Unmarshal parses a chart and checks that it can be drawn.
func Unmarshal(data []byte) (*Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal chart: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("chart must have a positive size, got %vx%v", c.Width, c.Height)
	}
	if c.Treemap == nil && !c.Empty {
		return nil, fmt.Errorf("chart without treemap must be marked empty")
	}
	return &c, nil
}

// Write writes a chart as JSON to w.
func Write(c *Chart, w io.Writer) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read reads a chart from r.
func Read(r io.Reader) (*Chart, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// WriteFile writes a chart to a JSON file.
func WriteFile(c *Chart, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a chart from a JSON file.
func ReadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
