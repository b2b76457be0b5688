package modal

import (
	"errors"
	"testing"
)

func TestCoordinator_StaticOpenClose(t *testing.T) {
	c, q := newTestCoordinator(t, newFakePage())
	a := c.Bind("a", nil, Overrides{})
	b := c.Bind("b", nil, Overrides{})

	if err := c.Open("missing", nil, EventData{}); !errors.Is(err, ErrUnknownPanel) {
		t.Errorf("Open(missing) = %v, want ErrUnknownPanel", err)
	}
	if err := c.Close("missing", nil, EventData{}); !errors.Is(err, ErrUnknownPanel) {
		t.Errorf("Close(missing) = %v, want ErrUnknownPanel", err)
	}

	if err := c.Open("a", nil, EventData{}); err != nil {
		t.Fatalf("Open(a) = %v", err)
	}
	q.Drain()
	if c.Instance() != a {
		t.Fatalf("Instance() = %v, want a", c.Instance())
	}

	// closing a panel that is not open is a silent no-op
	if err := c.Close("b", nil, EventData{}); err != nil {
		t.Errorf("Close(b) = %v, want nil", err)
	}
	if !a.IsOpen() || b.IsOpen() {
		t.Error("Close(b) should not affect a")
	}

	if err := c.Close("", nil, EventData{}); err != nil {
		t.Errorf("Close(\"\") = %v", err)
	}
	q.Drain()
	if c.Instance() != nil {
		t.Errorf("Close with no id should close the active panel, got %v", c.Instance())
	}

	if err := c.Close("", nil, EventData{}); err != nil {
		t.Errorf("Close(\"\") with nothing open = %v", err)
	}
}

func TestCoordinator_TriggerClick(t *testing.T) {
	c, q := newTestCoordinator(t, newFakePage())
	p := c.Bind("help", nil, Overrides{})

	var related any
	p.On(EventBeforeOpen, Observe(func(ev Event) { related = ev.Data.RelatedTarget }))

	trigger := Target{Kind: TargetTrigger, PanelID: "help", Source: "link-3"}
	c.Click(trigger)
	q.Drain()

	if !p.IsOpen() {
		t.Fatal("trigger click should open its target")
	}
	got, ok := related.(Target)
	if !ok || got.Source != "link-3" {
		t.Errorf("RelatedTarget = %#v, want the clicked trigger", related)
	}

	// unbound trigger targets are ignored
	c.Click(Target{Kind: TargetTrigger, PanelID: "nowhere"})
	if c.Instance() != p {
		t.Error("unbound trigger changed the active panel")
	}
}

func TestCoordinator_PanelsAndFind(t *testing.T) {
	c, _ := newTestCoordinator(t, newFakePage())
	for _, id := range []string{"settings", "confirm-delete", "help", "confirm-quit"} {
		c.Bind(id, nil, Overrides{})
	}

	var ids []string
	for _, p := range c.Panels() {
		ids = append(ids, p.ID())
	}
	if !equalStrings(ids, []string{"settings", "confirm-delete", "help", "confirm-quit"}) {
		t.Errorf("Panels() = %v, want binding order", ids)
	}

	if got := c.Find(""); len(got) != 4 {
		t.Errorf("Find(\"\") returned %d panels, want 4", len(got))
	}

	found := c.Find("cnfq")
	if len(found) == 0 || found[0].ID() != "confirm-quit" {
		var got []string
		for _, p := range found {
			got = append(got, p.ID())
		}
		t.Errorf("Find(cnfq) = %v, want confirm-quit first", got)
	}

	if got := c.Find("zzz"); len(got) != 0 {
		t.Errorf("Find(zzz) returned %d panels, want 0", len(got))
	}
}

func TestCoordinator_OverlayAndPageClasses(t *testing.T) {
	page := newFakePage()
	c, q := newTestCoordinator(t, page, WithNamespace("ui"))
	p := c.Bind("a", nil, Overrides{})

	p.Open(nil, EventData{})
	q.Drain()

	if page.overlayClass != "ui-overlay" {
		t.Errorf("overlay class = %q, want ui-overlay", page.overlayClass)
	}
	if !page.classes["ui-open"] {
		t.Error("page should carry ui-open while a panel is open")
	}
	if c.Namespace() != "ui" {
		t.Errorf("Namespace() = %q", c.Namespace())
	}

	p.Close(nil, EventData{})
	q.Drain()

	if page.classes["ui-open"] {
		t.Error("page still carries ui-open after close")
	}
	stats := c.Overlay().Stats()
	if stats.Created != 1 || stats.Destroyed != 1 {
		t.Errorf("overlay stats = %+v, want 1 created and 1 destroyed", stats)
	}
}

func TestScrollGuard(t *testing.T) {
	tests := []struct {
		name       string
		viewport   int
		content    int
		outer      int
		inner      int
		scrollable bool
		width      int
	}{
		{"scrollbar present", 80, 79, 11, 10, true, 1},
		{"no scrollbar", 80, 80, 11, 10, false, 1},
		{"unknown viewport", 0, 0, 11, 10, false, 1},
		{"overlay scrollbars", 80, 79, 10, 10, true, 0},
		{"nonsense probe clamps to zero", 80, 79, 8, 10, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage()
			page.viewport, page.content = tt.viewport, tt.content
			page.probeOuter, page.probeInner = tt.outer, tt.inner
			g := newScrollGuard(page)

			if g.IsPageScrollable() != tt.scrollable {
				t.Errorf("IsPageScrollable() = %v, want %v", g.IsPageScrollable(), tt.scrollable)
			}
			if g.Measured() {
				t.Error("probe should be lazy")
			}
			if w := g.MeasureScrollbarWidth(); w != tt.width {
				t.Errorf("MeasureScrollbarWidth() = %d, want %d", w, tt.width)
			}
			g.MeasureScrollbarWidth()
			if page.probes != 1 {
				t.Errorf("probes = %d, want 1", page.probes)
			}
		})
	}
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{PanelID: "b", From: StateClosed, To: StateOpen, Reason: ReasonHandoffRefused, Related: "a"}
	want := "cannot transition b from closed to open: handoff-refused (related a)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrHandoffRefused) || errors.Is(err, ErrBusy) {
		t.Error("errors.Is should match only the reason's sentinel")
	}
}
