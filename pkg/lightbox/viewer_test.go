package lightbox

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNavigationWraps(t *testing.T) {
	v, _ := openViewer(t, 4, 0)

	v.ShowPrevious()
	if got := v.State().Index; got != 3 {
		t.Errorf("previous from 0 = %d, want 3", got)
	}
	v.ShowNext()
	if got := v.State().Index; got != 0 {
		t.Errorf("next from 3 = %d, want 0", got)
	}
}

func TestNavigationStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 3, 7} {
		v, _ := openViewer(t, n, 0)
		want := 0
		for i := 0; i < 500; i++ {
			if rng.Intn(2) == 0 {
				v.ShowNext()
				want = (want + 1) % n
			} else {
				v.ShowPrevious()
				want = (want - 1 + n) % n
			}
			got := v.State().Index
			if got < 0 || got >= n {
				t.Fatalf("n=%d: index %d out of range", n, got)
			}
			if got != want {
				t.Fatalf("n=%d step %d: index = %d, want %d", n, i, got, want)
			}
		}
	}
}

func TestEmptyCollection(t *testing.T) {
	rec := &Recorder{}
	v := New(DefaultConfig(), nil, rec, rec)

	if err := v.Open(0); !errors.Is(err, ErrNoImages) {
		t.Errorf("Open() = %v, want ErrNoImages", err)
	}
	v.ShowNext()
	v.ShowPrevious()
	if v.IsOpen() || v.State().Index != 0 {
		t.Errorf("state = %+v", v.State())
	}
	if len(rec.Preloaded) != 0 {
		t.Errorf("preloaded %v", rec.Preloaded)
	}
	if _, ok := v.Current(); ok {
		t.Errorf("Current() reported an image")
	}
}

func TestOpenOutOfRange(t *testing.T) {
	v := New(DefaultConfig(), Collect(testItems(3)), nil, nil)
	for _, i := range []int{-1, 3, 100} {
		if err := v.Open(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Open(%d) = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if v.IsOpen() {
		t.Errorf("viewer opened")
	}
}

func TestOpenDisplaysImage(t *testing.T) {
	v, rec := openViewer(t, 5, 0)
	rec.Calls = nil
	rec.Preloaded = nil

	if err := v.Open(3); err != nil {
		t.Fatalf("open: %v", err)
	}

	want := []string{
		"visible true",
		"source /images/3.jpg",
		"title Painting 3",
		"transform 1.00 (0,0)",
		"constraints 400x768",
	}
	if diff := cmp.Diff(want, rec.Calls); diff != "" {
		t.Errorf("surface calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/images/2.jpg", "/images/4.jpg"}, rec.Preloaded); diff != "" {
		t.Errorf("preloads mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleImagePreloadsItself(t *testing.T) {
	_, rec := openViewer(t, 1, 0)
	if diff := cmp.Diff([]string{"/images/0.jpg", "/images/0.jpg"}, rec.Preloaded); diff != "" {
		t.Errorf("preloads mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigationResetsZoom(t *testing.T) {
	v, rec := openViewer(t, 5, 2)
	pinch(v, 300)
	drag(v, Point{X: 0, Y: 0}, Point{X: 50, Y: 50}, 400, TargetImage)

	v.ShowNext()
	st := v.State()
	want := State{Open: true, Index: 3, Scale: 1, Mode: ModeSwipe}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if rec.Scale != 1 || (rec.Pan != Point{}) {
		t.Errorf("surface transform = %v %+v", rec.Scale, rec.Pan)
	}
	if rec.Title != "Painting 3" {
		t.Errorf("title = %q", rec.Title)
	}
}

func TestClose(t *testing.T) {
	v, rec := openViewer(t, 5, 2)
	pinch(v, 200)
	v.TouchStart([]Point{{X: 0, Y: 0}}, at(0))

	v.Close()
	want := State{Open: false, Index: 2, Scale: 1, Mode: ModeSwipe}
	if diff := cmp.Diff(want, v.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if v.Session() != nil {
		t.Errorf("session survived close")
	}
	if rec.Visible {
		t.Errorf("surface still visible")
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		key       string
		handled   bool
		wantIndex int
		wantOpen  bool
	}{
		{key: "ArrowLeft", handled: true, wantIndex: 1, wantOpen: true},
		{key: "ArrowRight", handled: true, wantIndex: 3, wantOpen: true},
		{key: "Escape", handled: true, wantIndex: 2, wantOpen: false},
		{key: "Enter", handled: false, wantIndex: 2, wantOpen: true},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			v, _ := openViewer(t, 5, 2)
			if got := v.HandleKey(tc.key); got != tc.handled {
				t.Errorf("HandleKey(%q) = %v, want %v", tc.key, got, tc.handled)
			}
			if st := v.State(); st.Index != tc.wantIndex || st.Open != tc.wantOpen {
				t.Errorf("state = %+v", st)
			}
		})
	}
}

func TestKeysIgnoredWhileClosed(t *testing.T) {
	v, _ := openViewer(t, 5, 2)
	v.Close()

	for _, k := range []string{"ArrowLeft", "ArrowRight", "Escape"} {
		if v.HandleKey(k) {
			t.Errorf("HandleKey(%q) handled while closed", k)
		}
	}
	if v.State().Index != 2 {
		t.Errorf("index = %d, want 2", v.State().Index)
	}
}

func TestImageLoadedFits(t *testing.T) {
	v, rec := openViewer(t, 3, 0)

	v.ImageLoaded(Size{W: 2000, H: 1000})
	want := Constraints{MaxWidth: 400, MaxHeight: 768, Width: 400, Height: 200}
	if diff := cmp.Diff(want, rec.Constraints); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}
}

func TestResizeKeepsIndexAndScale(t *testing.T) {
	v, rec := openViewer(t, 5, 2)
	v.ImageLoaded(Size{W: 1000, H: 1000})
	pinch(v, 200)

	v.Resize(Size{W: 1200, H: 632})

	st := v.State()
	if st.Index != 2 || st.Scale != 2 {
		t.Errorf("state = %+v, want index 2 scale 2", st)
	}
	want := Constraints{MaxWidth: 1200, MaxHeight: 600, Width: 600, Height: 600}
	if diff := cmp.Diff(want, rec.Constraints); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}
}

func TestResizeWhileClosed(t *testing.T) {
	v, rec := openViewer(t, 5, 2)
	v.Close()
	rec.Calls = nil

	v.Resize(Size{W: 100, H: 100})
	if len(rec.Calls) != 0 {
		t.Errorf("closed viewer touched the surface: %v", rec.Calls)
	}

	if err := v.Open(1); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := rec.Constraints.MaxHeight; got != 68 {
		t.Errorf("max height = %v, want 68", got)
	}
}

func TestReopenKeepsFit(t *testing.T) {
	v, rec := openViewer(t, 2, 0)
	v.ImageLoaded(Size{W: 2000, H: 1000})
	want := Constraints{MaxWidth: 400, MaxHeight: 768, Width: 400, Height: 200}

	v.Close()
	if err := v.Open(0); err != nil {
		t.Fatalf("open: %v", err)
	}
	if diff := cmp.Diff(want, rec.Constraints); diff != "" {
		t.Errorf("constraints after reopening mismatch (-want +got):\n%s", diff)
	}

	v.ShowNext()
	if rec.Constraints.Width != 0 || rec.Constraints.Height != 0 {
		t.Errorf("another image kept the old fit: %+v", rec.Constraints)
	}
}

func TestSingleImageNavigationKeepsFit(t *testing.T) {
	v, rec := openViewer(t, 1, 0)
	v.ImageLoaded(Size{W: 2000, H: 1000})

	v.ShowNext()
	v.ShowPrevious()
	if rec.Constraints.Width != 400 || rec.Constraints.Height != 200 {
		t.Errorf("constraints after navigating = %+v, want 400x200", rec.Constraints)
	}
}
