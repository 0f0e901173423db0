package treemap

// Node is a hierarchy node annotated with its layout geometry.
//
// Nodes that received no area (zero value, or children of a zero-weight
// node) keep their place in the tree with Placed set to false and a zero
// Rect, so the output always mirrors the input shape.
type Node struct {
	Rect
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Fatalities int     `json:"fatalities,omitempty"`
	Depth      int     `json:"depth"`
	Placed     bool    `json:"placed"`
	Children   []*Node `json:"children,omitempty"`

	parent *Node
}

// Parent returns the node's parent, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsLeaf reports whether n is drawn as a leaf: it is placed and none of its
// children are.
func (n *Node) IsLeaf() bool {
	if !n.Placed {
		return false
	}
	for _, c := range n.Children {
		if c.Placed {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth-first, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns the drawn leaves under n in depth-first order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.IsLeaf() {
			out = append(out, c)
		}
	})
	return out
}

// Ancestor returns the ancestor of n at the given depth, or n itself when
// n.Depth == depth. It returns nil when depth is out of range.
func (n *Node) Ancestor(depth int) *Node {
	if depth < 0 || depth > n.Depth {
		return nil
	}
	cur := n
	for cur != nil && cur.Depth > depth {
		cur = cur.parent
	}
	return cur
}

// Group is the bounding box of all leaves under a direct child of the root.
// Renderers use it to draw grouping borders and centered labels.
type Group struct {
	Rect
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Groups returns one Group per placed direct child of the root that has at
// least one drawn leaf, in layout order.
func (n *Node) Groups() []Group {
	var out []Group
	for _, c := range n.Children {
		if !c.Placed {
			continue
		}
		leaves := c.Leaves()
		if len(leaves) == 0 {
			continue
		}
		box := leaves[0].Rect
		for _, l := range leaves[1:] {
			box = box.Union(l.Rect)
		}
		out = append(out, Group{Rect: box, Name: c.Name, Value: c.Value})
	}
	return out
}
