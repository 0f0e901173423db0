// Package hierarchy provides the weighted tree consumed by the treemap
// layout engine.
//
// Trees are built bottom-up with [Leaf] and [Branch]. A branch's Value is
// always the sum of its children's values; it is computed once at
// construction. Nodes are never modified after construction: a new
// selection or a new dataset produces a new tree.
package hierarchy

// Node is a weighted tree node.
type Node struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Fatalities int     `json:"fatalities,omitempty"` // leaves only
	Children   []*Node `json:"children,omitempty"`
}

// Leaf creates a leaf node.
func Leaf(name string, value float64, fatalities int) *Node {
	return &Node{Name: name, Value: value, Fatalities: fatalities}
}

// Branch creates an internal node whose value is the sum of its children.
// Nil children are skipped.
func Branch(name string, children ...*Node) *Node {
	n := &Node{Name: name}
	for _, c := range children {
		if c == nil {
			continue
		}
		n.Children = append(n.Children, c)
		n.Value += c.Value
	}
	return n
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants depth-first, pre-order.
// depth is 0 for n itself.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	var walk func(*Node, int)
	walk = func(cur *Node, d int) {
		fn(cur, d)
		for _, c := range cur.Children {
			walk(c, d+1)
		}
	}
	walk(n, 0)
}

// Leaves returns the leaf descendants of n in depth-first order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node, _ int) {
		if c.IsLeaf() {
			out = append(out, c)
		}
	})
	return out
}

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// TotalFatalities sums the fatalities of all leaves under n.
func (n *Node) TotalFatalities() int {
	total := 0
	for _, l := range n.Leaves() {
		total += l.Fatalities
	}
	return total
}
