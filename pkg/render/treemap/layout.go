package treemap

import (
	"cmp"
	"slices"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/hierarchy"
)

// Layout partitions bounds among the hierarchy rooted at root and returns a
// freshly allocated geometry tree. The input tree is not modified.
func Layout(root *hierarchy.Node, bounds Rect, padding float64) (*Node, error) {
	if root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "treemap: nil hierarchy")
	}
	if err := ValidateBounds(bounds, padding); err != nil {
		return nil, err
	}

	tree, err := convert(root, nil, 0)
	if err != nil {
		return nil, err
	}

	place(tree, bounds, bounds, padding)
	roundTree(tree, padding)
	tree.Rect = bounds.Round()
	return tree, nil
}

// ValidateBounds checks that bounds are finite with positive size and that
// padding is finite and non-negative.
func ValidateBounds(b Rect, padding float64) error {
	if !b.finite() {
		return apperrors.New(apperrors.ErrCodeInvalidGeometry, "treemap: bounds %+v are not finite", b)
	}
	if b.Width() <= 0 || b.Height() <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidGeometry,
			"treemap: bounds must have positive size, got %vx%v", b.Width(), b.Height())
	}
	if !finite(padding) || padding < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidGeometry, "treemap: invalid padding %v", padding)
	}
	return nil
}

// convert copies the hierarchy into geometry nodes, sorting children by
// value descending and name ascending.
func convert(h *hierarchy.Node, parent *Node, depth int) (*Node, error) {
	if !finite(h.Value) || h.Value < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidGeometry,
			"treemap: node %q has invalid value %v", h.Name, h.Value)
	}
	n := &Node{
		Name:       h.Name,
		Value:      h.Value,
		Fatalities: h.Fatalities,
		Depth:      depth,
		parent:     parent,
	}
	if len(h.Children) == 0 {
		return n, nil
	}

	n.Children = make([]*Node, 0, len(h.Children))
	for _, hc := range h.Children {
		c, err := convert(hc, n, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	slices.SortStableFunc(n.Children, func(a, b *Node) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return n, nil
}

// place assigns rect to n and slices content among n's weighted children.
func place(n *Node, rect, content Rect, padding float64) {
	n.Rect = rect
	n.Placed = true

	var weighted []*Node
	var total float64
	for _, c := range n.Children {
		if c.Value > 0 {
			weighted = append(weighted, c)
			total += c.Value
		}
	}
	if total == 0 {
		return
	}

	horizontal := content.Width() >= content.Height()
	start, end := content.Y0, content.Y1
	if horizontal {
		start, end = content.X0, content.X1
	}
	length := end - start

	gaps := float64(len(weighted) - 1)
	gap := padding
	if gaps > 0 && gaps*gap > length {
		gap = length / gaps
	}
	avail := length - gaps*gap

	// Offsets come from the running sum; the last child is pinned to the
	// content edge.
	var cum float64
	for i, c := range weighted {
		lo := start + avail*cum/total + float64(i)*gap
		cum += c.Value
		hi := start + avail*cum/total + float64(i)*gap
		if i == len(weighted)-1 {
			hi = end
		}

		sub := Rect{X0: content.X0, Y0: lo, X1: content.X1, Y1: hi}
		if horizontal {
			sub = Rect{X0: lo, Y0: content.Y0, X1: hi, Y1: content.Y1}
		}
		place(c, sub, sub.Inset(padding), padding)
	}
}

// roundTree rounds drawn leaves and rebuilds internal rectangles from their
// rounded children.
func roundTree(n *Node, padding float64) {
	if !n.Placed {
		return
	}
	if n.IsLeaf() {
		n.Rect = n.Rect.Round()
		return
	}

	own := n.Rect.Round()
	var box Rect
	first := true
	for _, c := range n.Children {
		roundTree(c, padding)
		if !c.Placed {
			continue
		}
		if first {
			box, first = c.Rect, false
		} else {
			box = box.Union(c.Rect)
		}
	}
	n.Rect = box.Outset(padding).Round().Intersect(own)
}
