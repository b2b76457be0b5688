package modal

import "testing"

func TestNormalizeEventType(t *testing.T) {
	tests := []struct {
		in     string
		want   EventType
		wantOK bool
	}{
		{"beforeOpen", EventBeforeOpen, true},
		{"beforeopen", EventBeforeOpen, true},
		{"beforeOpenModal", EventBeforeOpen, true},
		{"before-open", EventBeforeOpen, true},
		{"after_close", EventAfterClose, true},
		{"afterClose.modal", EventAfterClose, true},
		{"  afterOpen ", EventAfterOpen, true},
		{"beforeClose", EventBeforeClose, true},
		{"initializeModal", EventInitialize, true},
		{"open", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeEventType(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeEventType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEventType_Cancellable(t *testing.T) {
	for typ := range AllEventTypes() {
		want := typ == EventBeforeOpen || typ == EventBeforeClose
		if typ.Cancellable() != want {
			t.Errorf("%s.Cancellable() = %v, want %v", typ, typ.Cancellable(), want)
		}
	}
}

func TestEmitter_AllListenersRunAndAnyCancels(t *testing.T) {
	var em emitter
	calls := 0
	em.add(EventBeforeOpen, func(Event) Verdict { calls++; return Cancelled }, false)
	em.add(EventBeforeOpen, func(Event) Verdict { calls++; return Proceed }, false)
	em.add(EventAfterOpen, func(Event) Verdict { calls += 100; return Proceed }, false)

	if v := em.emit(Event{Type: EventBeforeOpen}); v != Cancelled {
		t.Errorf("verdict = %v, want cancelled", v)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestEmitter_NonCancellableIgnoresVeto(t *testing.T) {
	var em emitter
	em.add(EventAfterClose, veto, false)

	if v := em.emit(Event{Type: EventAfterClose}); v != Proceed {
		t.Errorf("verdict = %v, want proceed for a non-cancellable event", v)
	}
}

func TestEmitter_OnceAndUnsubscribe(t *testing.T) {
	var em emitter
	once, always := 0, 0
	em.add(EventAfterOpen, Observe(func(Event) { once++ }), true)
	sub := em.add(EventAfterOpen, Observe(func(Event) { always++ }), false)

	em.emit(Event{Type: EventAfterOpen})
	em.emit(Event{Type: EventAfterOpen})
	if once != 1 || always != 2 {
		t.Errorf("once=%d always=%d, want 1 and 2", once, always)
	}

	sub.Unsubscribe()
	sub.Unsubscribe()
	em.emit(Event{Type: EventAfterOpen})
	if always != 2 {
		t.Errorf("listener ran after Unsubscribe")
	}
	if len(em.entries) != 0 {
		t.Errorf("entries left: %d", len(em.entries))
	}
}

func TestCoordinatorListener_CanVeto(t *testing.T) {
	c, q := newTestCoordinator(t, newFakePage())
	p := c.Bind("a", nil, Overrides{})

	var seenInit bool
	c.On(EventInitialize, Observe(func(ev Event) { seenInit = ev.Panel.ID() == "b" }))
	c.Bind("b", nil, Overrides{})
	if !seenInit {
		t.Error("document-level listener should see initialize")
	}

	sub := c.On(EventBeforeOpen, veto)
	p.Open(nil, EventData{})
	q.Drain()
	if p.IsOpen() {
		t.Fatal("document-level veto ignored")
	}

	sub.Unsubscribe()
	p.Open(nil, EventData{Values: map[string]any{"source": "test"}})
	q.Drain()
	if !p.IsOpen() {
		t.Fatal("open should succeed after unsubscribing the veto")
	}
}
