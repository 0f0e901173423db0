package interact

// Selection is the drill-down state: either the aggregate view or the detail
// view of one cause. The zero value is the aggregate view.
type Selection struct {
	cause  string
	detail bool
}

// Aggregate returns the aggregate selection.
func Aggregate() Selection { return Selection{} }

// Detail returns the selection showing one cause.
func Detail(cause string) Selection { return Selection{cause: cause, detail: true} }

// IsDetail reports whether a cause is selected.
func (s Selection) IsDetail() bool { return s.detail }

// Cause returns the selected cause and whether there is one.
func (s Selection) Cause() (string, bool) { return s.cause, s.detail }

// CausePtr returns the selected cause, or nil in the aggregate view.
func (s Selection) CausePtr() *string {
	if !s.detail {
		return nil
	}
	c := s.cause
	return &c
}

func (s Selection) String() string {
	if !s.detail {
		return "aggregate"
	}
	return "detail(" + s.cause + ")"
}

// Action is an input to Reduce.
type Action interface{ action() }

// SelectCategory drills into one cause.
type SelectCategory struct{ Cause string }

// Reset returns to the aggregate view.
type Reset struct{}

// Hover is a pointer move. It never changes the selection.
type Hover struct{}

func (SelectCategory) action() {}
func (Reset) action()          {}
func (Hover) action()          {}

// Reduce returns the selection that follows s after a.
// Unknown actions leave s unchanged.
func Reduce(s Selection, a Action) Selection {
	switch a := a.(type) {
	case SelectCategory:
		return Detail(a.Cause)
	case Reset:
		return Aggregate()
	default:
		return s
	}
}

// Event is emitted to subscribers on selection changes. Cause is nil when
// the view was reset.
type Event struct {
	Cause *string `json:"cause"`
}
