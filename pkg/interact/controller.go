package interact

// Button identifies the pointer button of a click.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Target identifies what a click landed on.
type Target int

const (
	// TargetNone is empty chart background.
	TargetNone Target = iota
	// TargetCategory is anything carrying a cause: a legend entry, a series
	// band or an aggregate treemap group.
	TargetCategory
	// TargetTooltip is the tooltip box.
	TargetTooltip
	// TargetBack is the control returning to the aggregate view.
	TargetBack
)

// Click is a pointer click as reported by the host.
type Click struct {
	Button Button
	Target Target
	Cause  string // set for TargetCategory
}

// ClickResult tells the host what happened to a click.
type ClickResult struct {
	// Handled is true when the controller consumed the click.
	Handled bool
	// Propagate is false when handlers below the target must not see it.
	Propagate bool
	// Event is the selection event fired by the click, if any.
	Event *Event
}

// Controller owns the selection and notifies subscribers of changes.
// It is not safe for concurrent use.
type Controller struct {
	sel    Selection
	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func(Event)
}

// NewController returns a controller in the aggregate view.
func NewController() *Controller {
	return &Controller{}
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection { return c.sel }

// Subscribe registers fn for selection events and returns a function that
// removes it. Subscribers run in registration order.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies a through Reduce and emits the resulting event, if any.
// Selecting the cause that is already selected emits again.
func (c *Controller) Dispatch(a Action) (Selection, *Event) {
	c.sel = Reduce(c.sel, a)
	var ev *Event
	switch a.(type) {
	case SelectCategory, Reset:
		ev = &Event{Cause: c.sel.CausePtr()}
		c.emit(*ev)
	}
	return c.sel, ev
}

// SelectCategory drills into cause.
func (c *Controller) SelectCategory(cause string) Selection {
	sel, _ := c.Dispatch(SelectCategory{Cause: cause})
	return sel
}

// Reset returns to the aggregate view.
func (c *Controller) Reset() Selection {
	sel, _ := c.Dispatch(Reset{})
	return sel
}

// HandleClick routes a click to a selection change.
func (c *Controller) HandleClick(click Click) ClickResult {
	if click.Target == TargetTooltip {
		return ClickResult{Handled: true}
	}
	if click.Button != ButtonPrimary {
		return ClickResult{Propagate: true}
	}
	switch click.Target {
	case TargetCategory:
		if click.Cause == "" {
			return ClickResult{Propagate: true}
		}
		_, ev := c.Dispatch(SelectCategory{Cause: click.Cause})
		return ClickResult{Handled: true, Event: ev}
	case TargetBack:
		_, ev := c.Dispatch(Reset{})
		return ClickResult{Handled: true, Event: ev}
	}
	return ClickResult{Propagate: true}
}

func (c *Controller) emit(ev Event) {
	// Copy so a subscriber may unsubscribe while being notified.
	subs := append([]subscription(nil), c.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}
