package lightbox

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Trace is a recorded input sequence that can be replayed against a fresh viewer.
type Trace struct {
	Name string `yaml:"name"`
	// Images is the number of images in the collection.
	Images int `yaml:"images"`
	// Open opens the viewer at Start before replaying events.
	Open     bool         `yaml:"open"`
	Start    int          `yaml:"start"`
	Viewport Size         `yaml:"viewport"`
	Box      Rect         `yaml:"box"`
	Events   []TraceEvent `yaml:"events"`
}

// TraceEvent is one recorded event. At is milliseconds since the trace began.
type TraceEvent struct {
	At       int64   `yaml:"at"`
	Kind     string  `yaml:"kind"`
	Target   string  `yaml:"target,omitempty"`
	Touches  []Point `yaml:"touches,omitempty"`
	Changed  []Point `yaml:"changed,omitempty"`
	Pos      Point   `yaml:"pos,omitempty"`
	Item     int     `yaml:"item,omitempty"`
	Key      string  `yaml:"key,omitempty"`
	Viewport Size    `yaml:"viewport,omitempty"`
}

// Step is the result of replaying one event.
type Step struct {
	Event       TraceEvent
	Disposition Disposition
	State       State
}

func (s Step) String() string {
	return fmt.Sprintf("%6dms %-11s %-8s -> %s claimed=%v prevent=%v open=%v index=%d mode=%s",
		s.Event.At, s.Event.Kind, s.Event.Target, s.Disposition.Outcome,
		s.Disposition.Claimed, s.Disposition.PreventDefault, s.State.Open, s.State.Index, s.State.Mode)
}

// ParseTrace decodes a YAML trace.
func ParseTrace(bs []byte) (*Trace, error) {
	t := &Trace{}
	if err := yaml.Unmarshal(bs, t); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return t, nil
}

// LoadTrace reads a YAML trace from disk.
func LoadTrace(path string) (*Trace, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseTrace(bs)
}

// Event converts a recorded event relative to the trace epoch.
func (te TraceEvent) Event(epoch time.Time) (Event, error) {
	k, err := ParseEventKind(te.Kind)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Kind:     k,
		Target:   ParseTarget(te.Target),
		At:       epoch.Add(time.Duration(te.At) * time.Millisecond),
		Item:     te.Item,
		Pos:      te.Pos,
		Touches:  te.Touches,
		Changed:  te.Changed,
		Key:      te.Key,
		Viewport: te.Viewport,
	}, nil
}

// Replay runs a trace against a new viewer backed by a Recorder and returns one step per event.
func Replay(t *Trace) ([]Step, *Recorder, error) {
	rec := &Recorder{Box: t.Box}

	items := make([]Item, t.Images)
	for i := range items {
		name := fmt.Sprintf("image-%02d.jpg", i)
		items[i] = Item{Source: "/images/" + name, RawTitle: name}
	}

	v := New(DefaultConfig(), Collect(items), rec, rec)
	v.Resize(t.Viewport)
	if t.Open {
		if err := v.Open(t.Start); err != nil {
			return nil, rec, fmt.Errorf("open: %w", err)
		}
	}

	r := NewRouter(v)
	epoch := time.Unix(0, 0)
	steps := make([]Step, 0, len(t.Events))
	for i, te := range t.Events {
		ev, err := te.Event(epoch)
		if err != nil {
			return steps, rec, fmt.Errorf("event %d: %w", i, err)
		}
		d := r.Dispatch(ev)
		steps = append(steps, Step{Event: te, Disposition: d, State: v.State()})
	}
	return steps, rec, nil
}
