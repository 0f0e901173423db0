// Package treemap computes treemap geometry for a weighted hierarchy.
//
// [Layout] recursively partitions a bounding rectangle so that each node's
// area is proportional to its value. The result is a [Node] tree of the same
// shape as the input, annotated with absolute rectangles and depths. Drawing
// is left to a renderer (see the sink package).
//
// # Algorithm
//
// At every internal node the children are sorted by value (descending, ties
// by name) and laid out in a single slice along the longer axis of the
// node's content rectangle. The length available along that axis, after
// subtracting one padding gap between each pair of siblings, is shared in
// proportion to the children's values:
//
//	avail  = length - (n-1)*padding
//	len(i) = avail * value(i) / W
//
// The content rectangle of the root is the bounds; every other internal
// node lays out its children inside its own rectangle inset by padding on
// all sides, which keeps group borders visibly separated.
//
// # Rounding
//
// The whole pass runs in float64. Only afterwards are leaf rectangles rounded
// to integer units, and internal nodes report the union of their rounded
// children (grown by the padding). Rounding once at the end keeps adjacent
// siblings from drifting into overlaps or gaps.
//
// # Degenerate Input
//
// Children with a zero value are not placed. A node whose children sum to
// zero is laid out as a leaf. Bounds with a non-positive, NaN or infinite
// size, negative padding and negative node values are rejected with an
// INVALID_GEOMETRY error instead of producing inverted rectangles.
package treemap
