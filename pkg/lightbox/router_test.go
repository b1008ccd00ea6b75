package lightbox

import (
	"testing"
)

func TestRouterClosed(t *testing.T) {
	v := New(DefaultConfig(), Collect(testItems(4)), &Recorder{}, nil)
	r := NewRouter(v)

	// touches over the grid belong to the page while the viewer is closed
	d := r.Dispatch(Event{Kind: EventTouchStart, Target: TargetGrid, Touches: []Point{{X: 1, Y: 1}}, At: at(0)})
	if d.Claimed || d.PreventDefault {
		t.Errorf("touch on closed viewer claimed: %+v", d)
	}
	if v.Session() != nil {
		t.Errorf("closed viewer started a gesture")
	}

	if d := r.Dispatch(Event{Kind: EventKey, Key: "ArrowRight"}); d.Claimed {
		t.Errorf("key claimed while closed")
	}

	d = r.Dispatch(Event{Kind: EventClick, Target: TargetGrid, Item: 2})
	if !d.Claimed {
		t.Errorf("grid click not claimed")
	}
	if st := v.State(); !st.Open || st.Index != 2 {
		t.Errorf("state = %+v, want open at 2", st)
	}
}

func TestRouterBadGridItem(t *testing.T) {
	v := New(DefaultConfig(), Collect(testItems(2)), nil, nil)
	r := NewRouter(v)

	if d := r.Dispatch(Event{Kind: EventClick, Target: TargetGrid, Item: 9}); d.Claimed {
		t.Errorf("click on missing item claimed")
	}
	if v.IsOpen() {
		t.Errorf("viewer opened on a missing item")
	}
}

func TestRouterBlocksGridWhileOpen(t *testing.T) {
	v, _ := openViewer(t, 4, 1)
	r := NewRouter(v)

	for _, k := range []EventKind{EventClick, EventTouchStart, EventTouchMove, EventTouchEnd, EventTouchCancel} {
		d := r.Dispatch(Event{Kind: k, Target: TargetGrid, Item: 3, Touches: []Point{{X: 5, Y: 5}}, Changed: []Point{{X: 5, Y: 5}}, At: at(10)})
		if !d.Claimed || !d.PreventDefault {
			t.Errorf("%s on grid = %+v, want claimed and prevented", k, d)
		}
	}
	if st := v.State(); !st.Open || st.Index != 1 {
		t.Errorf("grid event leaked to viewer: %+v", st)
	}
	if v.Session() != nil {
		t.Errorf("grid touch started a session")
	}
}

func TestRouterClicks(t *testing.T) {
	tests := []struct {
		name      string
		target    Target
		x         float64
		wantCmd   Command
		wantIndex int
		wantOpen  bool
	}{
		{name: "image left", target: TargetImage, x: 10, wantCmd: CommandPrevious, wantIndex: 0, wantOpen: true},
		{name: "image right", target: TargetImage, x: 390, wantCmd: CommandNext, wantIndex: 2, wantOpen: true},
		{name: "backdrop", target: TargetBackdrop, x: 10, wantCmd: CommandClose, wantIndex: 1, wantOpen: false},
		{name: "title", target: TargetOther, x: 10, wantCmd: CommandNone, wantIndex: 1, wantOpen: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, _ := openViewer(t, 4, 1)
			d := NewRouter(v).Dispatch(Event{Kind: EventClick, Target: tc.target, Pos: Point{X: tc.x, Y: 200}})
			if !d.Claimed {
				t.Errorf("click not claimed")
			}
			if d.Outcome.Command != tc.wantCmd {
				t.Errorf("command = %s, want %s", d.Outcome.Command, tc.wantCmd)
			}
			if st := v.State(); st.Index != tc.wantIndex || st.Open != tc.wantOpen {
				t.Errorf("state = %+v", st)
			}
		})
	}
}

func TestRouterTapPreventsSyntheticClick(t *testing.T) {
	v, _ := openViewer(t, 4, 1)
	r := NewRouter(v)

	r.Dispatch(Event{Kind: EventTouchStart, Target: TargetImage, Touches: []Point{{X: 300, Y: 200}}, At: at(0)})
	d := r.Dispatch(Event{Kind: EventTouchEnd, Target: TargetImage, Changed: []Point{{X: 300, Y: 200}}, At: at(80)})

	if d.Outcome.Command != CommandNext {
		t.Fatalf("command = %s, want next", d.Outcome.Command)
	}
	if !d.PreventDefault {
		t.Errorf("tap did not prevent the synthetic click")
	}
	if v.State().Index != 2 {
		t.Errorf("index = %d, want 2", v.State().Index)
	}
}

func TestRouterSwipeMoveKeepsDefault(t *testing.T) {
	v, _ := openViewer(t, 4, 1)
	r := NewRouter(v)

	r.Dispatch(Event{Kind: EventTouchStart, Target: TargetImage, Touches: []Point{{X: 300, Y: 200}}, At: at(0)})
	d := r.Dispatch(Event{Kind: EventTouchMove, Target: TargetImage, Touches: []Point{{X: 250, Y: 200}}, At: at(50)})
	if !d.Claimed || d.PreventDefault {
		t.Errorf("swipe move = %+v, want claimed without preventing default", d)
	}
}

func TestRouterForwardsKeysAndResize(t *testing.T) {
	v, rec := openViewer(t, 4, 1)
	r := NewRouter(v)

	if d := r.Dispatch(Event{Kind: EventKey, Key: "ArrowRight"}); !d.Claimed || !d.PreventDefault {
		t.Errorf("arrow key = %+v", d)
	}
	if d := r.Dispatch(Event{Kind: EventKey, Key: "a"}); d.Claimed {
		t.Errorf("unhandled key claimed")
	}
	r.Dispatch(Event{Kind: EventResize, Viewport: Size{W: 640, H: 480}})
	if rec.Constraints.MaxWidth != 640 || rec.Constraints.MaxHeight != 448 {
		t.Errorf("constraints = %+v", rec.Constraints)
	}
	if v.State().Index != 2 {
		t.Errorf("index = %d, want 2", v.State().Index)
	}
}

func TestParseEventKind(t *testing.T) {
	for k, n := range eventNames {
		got, err := ParseEventKind(n)
		if err != nil || got != k {
			t.Errorf("ParseEventKind(%q) = %v, %v", n, got, err)
		}
	}
	if _, err := ParseEventKind("wheel"); err == nil {
		t.Errorf("ParseEventKind(wheel) succeeded")
	}
}
