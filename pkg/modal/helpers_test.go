package modal

import (
	"io"
	"log/slog"
	"testing"
)

// fakePage records what the coordinator asks of the page
type fakePage struct {
	viewport int
	content  int
	padding  int
	classes  map[string]bool

	overlay      bool
	overlayClass string

	probeOuter, probeInner int

	mounts, unmounts, probes, resets int
	log                              []string
}

func newFakePage() *fakePage {
	return &fakePage{
		viewport:   80,
		content:    80,
		classes:    make(map[string]bool),
		probeOuter: 11,
		probeInner: 10,
	}
}

// scrollable makes the page report a one-column scrollbar
func (f *fakePage) scrollable() *fakePage {
	f.content = f.viewport - 1
	return f
}

func (f *fakePage) ViewportWidth() int { return f.viewport }
func (f *fakePage) ContentWidth() int  { return f.content }
func (f *fakePage) PaddingRight() int  { return f.padding }

func (f *fakePage) SetPaddingRight(n int) {
	f.padding = n
	f.log = append(f.log, "padding")
}

func (f *fakePage) ResetStyle() {
	f.padding = 0
	f.resets++
	f.log = append(f.log, "reset")
}

func (f *fakePage) SetClass(name string, on bool) {
	f.classes[name] = on
}

func (f *fakePage) MountOverlay(class string) {
	f.overlay = true
	f.overlayClass = class
	f.mounts++
	f.log = append(f.log, "mount")
}

func (f *fakePage) UnmountOverlay() {
	f.overlay = false
	f.unmounts++
	f.log = append(f.log, "unmount")
}

func (f *fakePage) ProbeScrollbar() (int, int) {
	f.probes++
	return f.probeOuter, f.probeInner
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCoordinator(t *testing.T, page *fakePage, opts ...CoordinatorOption) (*Coordinator, *Queue) {
	t.Helper()
	q := NewQueue()
	opts = append([]CoordinatorOption{WithLogger(discardLogger())}, opts...)
	return NewCoordinator(page, q, opts...), q
}

// recorded is one event seen by a recorder
type recorded struct {
	panel   string
	typ     EventType
	related string
	payload any
}

// recorder captures every event through a document-level listener
type recorder struct {
	events []recorded
}

func record(c *Coordinator) *recorder {
	r := &recorder{}
	for t := range AllEventTypes() {
		c.On(t, Observe(func(ev Event) {
			rec := recorded{panel: ev.Panel.ID(), typ: ev.Type, payload: ev.Payload}
			if ev.Data.RelatedModal != nil {
				rec.related = ev.Data.RelatedModal.ID()
			}
			r.events = append(r.events, rec)
		}))
	}
	return r
}

func (r *recorder) reset() { r.events = nil }

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.panel+":"+string(e.typ))
	}
	return out
}

func (r *recorder) find(panel string, typ EventType) (recorded, bool) {
	for _, e := range r.events {
		if e.panel == panel && e.typ == typ {
			return e, true
		}
	}
	return recorded{}, false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func veto(Event) Verdict { return Cancelled }
