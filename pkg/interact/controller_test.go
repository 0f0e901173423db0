package interact

import "testing"

func causeOf(ev Event) string {
	if ev.Cause == nil {
		return "<nil>"
	}
	return *ev.Cause
}

func TestControllerEmitsEvents(t *testing.T) {
	c := NewController()
	var got []string
	c.Subscribe(func(ev Event) { got = append(got, causeOf(ev)) })

	c.SelectCategory("Weather")
	c.SelectCategory("Weather")
	c.Dispatch(Hover{})
	c.SelectCategory("Sabotage")
	c.Reset()

	want := []string{"Weather", "Weather", "Sabotage", "<nil>"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if c.Selection() != Aggregate() {
		t.Errorf("Selection() = %v, want aggregate", c.Selection())
	}
}

func TestControllerUnsubscribe(t *testing.T) {
	c := NewController()
	var a, b int
	unsubA := c.Subscribe(func(Event) { a++ })
	c.Subscribe(func(Event) { b++ })

	c.SelectCategory("Weather")
	unsubA()
	unsubA()
	c.SelectCategory("Weather")

	if a != 1 || b != 2 {
		t.Errorf("a = %d, b = %d, want 1, 2", a, b)
	}
}

func TestControllerUnsubscribeDuringEmit(t *testing.T) {
	c := NewController()
	var calls int
	var unsub func()
	unsub = c.Subscribe(func(Event) {
		calls++
		unsub()
	})
	c.Subscribe(func(Event) { calls++ })

	c.SelectCategory("Weather")
	c.SelectCategory("Weather")
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestHandleClick(t *testing.T) {
	tests := []struct {
		name      string
		start     Selection
		click     Click
		handled   bool
		propagate bool
		event     bool
		want      Selection
	}{
		{
			name:    "primary category click selects",
			start:   Aggregate(),
			click:   Click{Button: ButtonPrimary, Target: TargetCategory, Cause: "Weather"},
			handled: true, event: true,
			want: Detail("Weather"),
		},
		{
			name:    "category click while in detail switches",
			start:   Detail("Weather"),
			click:   Click{Button: ButtonPrimary, Target: TargetCategory, Cause: "Sabotage"},
			handled: true, event: true,
			want: Detail("Sabotage"),
		},
		{
			name:    "tooltip click is absorbed",
			start:   Aggregate(),
			click:   Click{Button: ButtonPrimary, Target: TargetTooltip, Cause: "Weather"},
			handled: true,
			want:    Aggregate(),
		},
		{
			name:      "secondary click never selects",
			start:     Aggregate(),
			click:     Click{Button: ButtonSecondary, Target: TargetCategory, Cause: "Weather"},
			propagate: true,
			want:      Aggregate(),
		},
		{
			name:      "middle click on back does nothing",
			start:     Detail("Weather"),
			click:     Click{Button: ButtonMiddle, Target: TargetBack},
			propagate: true,
			want:      Detail("Weather"),
		},
		{
			name:    "back resets",
			start:   Detail("Weather"),
			click:   Click{Button: ButtonPrimary, Target: TargetBack},
			handled: true, event: true,
			want: Aggregate(),
		},
		{
			name:      "background click passes through",
			start:     Detail("Weather"),
			click:     Click{Button: ButtonPrimary, Target: TargetNone},
			propagate: true,
			want:      Detail("Weather"),
		},
		{
			name:      "category without cause passes through",
			start:     Aggregate(),
			click:     Click{Button: ButtonPrimary, Target: TargetCategory},
			propagate: true,
			want:      Aggregate(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			c.sel = tt.start
			var events int
			c.Subscribe(func(Event) { events++ })

			res := c.HandleClick(tt.click)
			if res.Handled != tt.handled {
				t.Errorf("Handled = %v, want %v", res.Handled, tt.handled)
			}
			if res.Propagate != tt.propagate {
				t.Errorf("Propagate = %v, want %v", res.Propagate, tt.propagate)
			}
			if (res.Event != nil) != tt.event {
				t.Errorf("Event = %v, want event %v", res.Event, tt.event)
			}
			if wantEvents := map[bool]int{true: 1, false: 0}[tt.event]; events != wantEvents {
				t.Errorf("subscriber saw %d events, want %d", events, wantEvents)
			}
			if c.Selection() != tt.want {
				t.Errorf("Selection() = %v, want %v", c.Selection(), tt.want)
			}
		})
	}
}
