package modal

import "strings"

// EventType names a lifecycle event
type EventType string

// Lifecycle events, in the order a panel sees them
const (
	EventInitialize  EventType = "initialize"
	EventBeforeOpen  EventType = "beforeOpen"
	EventAfterOpen   EventType = "afterOpen"
	EventBeforeClose EventType = "beforeClose"
	EventAfterClose  EventType = "afterClose"
)

// AllEventTypes returns all valid event types.
func AllEventTypes() map[EventType]bool {
	return map[EventType]bool{
		EventInitialize:  true,
		EventBeforeOpen:  true,
		EventAfterOpen:   true,
		EventBeforeClose: true,
		EventAfterClose:  true,
	}
}

// Cancellable reports whether listeners may veto the event
func (t EventType) Cancellable() bool {
	return t == EventBeforeOpen || t == EventBeforeClose
}

// NormalizeEventType maps an event name to its canonical form.
// Accepts any letter case and the namespaced form used by the jQuery
// plugin ("beforeOpenModal"), so recorded journals and scripts written
// against either naming keep working.
func NormalizeEventType(name string) (EventType, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "modal")
	n = strings.NewReplacer("-", "", "_", "", ".", "").Replace(n)
	switch n {
	case "initialize", "init":
		return EventInitialize, true
	case "beforeopen":
		return EventBeforeOpen, true
	case "afteropen":
		return EventAfterOpen, true
	case "beforeclose":
		return EventBeforeClose, true
	case "afterclose":
		return EventAfterClose, true
	default:
		return "", false
	}
}

// EventData is the metadata half of an event: who caused it and why
type EventData struct {
	// RelatedModal is the other side of a handoff: the panel being closed
	// on beforeOpen/afterOpen, the panel being opened on beforeClose/afterClose.
	RelatedModal *Panel
	// RelatedTarget is the trigger that requested the open, if any
	RelatedTarget any
	// Values carries caller-defined metadata
	Values map[string]any
}

// Event is delivered to listeners
type Event struct {
	Type    EventType
	Panel   *Panel
	Data    EventData
	Payload any
}

// Verdict is what a listener returns. Only cancellable events honour Cancelled.
type Verdict int

const (
	Proceed Verdict = iota
	Cancelled
)

func (v Verdict) String() string {
	if v == Cancelled {
		return "cancelled"
	}
	return "proceed"
}

// Listener reacts to an event
type Listener func(Event) Verdict

// Observe adapts a function with no opinion on cancellation into a Listener
func Observe(fn func(Event)) Listener {
	return func(ev Event) Verdict {
		fn(ev)
		return Proceed
	}
}

// Subscription is the handle returned when a listener is registered
type Subscription struct {
	em *emitter
	id uint64
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.em == nil {
		return
	}
	s.em.remove(s.id)
	s.em = nil
}

type entry struct {
	id    uint64
	typ   EventType
	fn    Listener
	once  bool
	fired bool
}

// emitter keeps listeners in registration order
type emitter struct {
	next    uint64
	entries []*entry
}

func (em *emitter) add(t EventType, fn Listener, once bool) *Subscription {
	em.next++
	em.entries = append(em.entries, &entry{id: em.next, typ: t, fn: fn, once: once})
	return &Subscription{em: em, id: em.next}
}

func (em *emitter) remove(id uint64) {
	for i, e := range em.entries {
		if e.id == id {
			em.entries = append(em.entries[:i], em.entries[i+1:]...)
			return
		}
	}
}

// emit runs every listener registered for ev.Type. All listeners run even
// after one cancels; the result is Cancelled if any of them cancelled.
func (em *emitter) emit(ev Event) Verdict {
	snapshot := make([]*entry, 0, len(em.entries))
	for _, e := range em.entries {
		if e.typ == ev.Type {
			snapshot = append(snapshot, e)
		}
	}

	verdict := Proceed
	for _, e := range snapshot {
		if e.once {
			if e.fired {
				continue
			}
			e.fired = true
			em.remove(e.id)
		}
		if e.fn(ev) == Cancelled {
			verdict = Cancelled
		}
	}
	if !ev.Type.Cancellable() {
		return Proceed
	}
	return verdict
}
