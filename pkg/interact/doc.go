// Package interact mediates user input against chart geometry.
//
// It owns the drill-down selection state machine and answers the questions a
// host asks on every pointer event: which treemap leaf or series interval
// is under the pointer, where a tooltip should go, and what it should say.
//
// # Selection
//
// [Selection] has two states, aggregate and detail(cause). [Reduce] is the
// pure transition function:
//
//	SelectCategory{Cause}  any state -> Detail(cause)
//	Reset{}                any state -> Aggregate
//	Hover{}                unchanged
//
// [Controller] holds the one live Selection, notifies subscribers with an
// [Event] whenever a category is selected or the view is reset, and
// dispatches clicks: primary clicks on a category select it, clicks inside
// the tooltip are absorbed, and non-primary clicks never change state.
//
// # Hit testing
//
// [TreemapIndex] resolves a point to the drawn leaf containing it. Leaf
// rectangles are disjoint and half-open, so at most one leaf matches.
// [SeriesIndex] splits the x-domain into decade intervals and resolves an x
// value (or a pixel through an [XScale]) to the interval containing it.
//
// # Tooltips
//
// [PlaceTooltip] puts a tooltip up and to the right of the pointer and flips
// it left or below when it would leave the viewport. The two flips are
// independent; a viewport smaller than the tooltip may still overflow.
package interact
