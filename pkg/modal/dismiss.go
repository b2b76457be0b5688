package modal

import "strings"

// KeyEscape is the key name that dismisses a panel
const KeyEscape = "esc"

// TargetKind classifies what a click landed on
type TargetKind string

const (
	TargetNone TargetKind = ""
	// TargetWrapper is the panel's own wrapper, i.e. the backdrop area
	// around the content, never a descendant of it
	TargetWrapper TargetKind = "wrapper"
	// TargetContent is anywhere inside the panel's element
	TargetContent TargetKind = "content"
	// TargetCloseAction is a close control inside the panel's element
	TargetCloseAction TargetKind = "close"
	// TargetTrigger is a page element that opens PanelID
	TargetTrigger TargetKind = "trigger"
	// TargetPage is the page outside any panel
	TargetPage TargetKind = "page"
)

// Target is the resolved destination of a click
type Target struct {
	Kind    TargetKind
	PanelID string
	// Source is the host's own handle for what was clicked
	Source any
}

func isEscape(key string) bool {
	switch strings.ToLower(key) {
	case KeyEscape, "escape":
		return true
	}
	return false
}

type handler[T any] struct {
	id uint64
	fn func(T)
}

// inputBus fans key and click input out to whatever is currently listening
type inputBus struct {
	next   uint64
	keys   []handler[string]
	clicks []handler[Target]
}

func (b *inputBus) onKey(fn func(string)) func() {
	b.next++
	id := b.next
	b.keys = append(b.keys, handler[string]{id: id, fn: fn})
	return func() { b.keys = removeHandler(b.keys, id) }
}

func (b *inputBus) onClick(fn func(Target)) func() {
	b.next++
	id := b.next
	b.clicks = append(b.clicks, handler[Target]{id: id, fn: fn})
	return func() { b.clicks = removeHandler(b.clicks, id) }
}

func (b *inputBus) key(k string) {
	for _, h := range append([]handler[string](nil), b.keys...) {
		h.fn(k)
	}
}

func (b *inputBus) click(t Target) {
	for _, h := range append([]handler[Target](nil), b.clicks...) {
		h.fn(t)
	}
}

func (b *inputBus) listeners() int {
	return len(b.keys) + len(b.clicks)
}

func removeHandler[T any](hs []handler[T], id uint64) []handler[T] {
	for i, h := range hs {
		if h.id == id {
			return append(hs[:i], hs[i+1:]...)
		}
	}
	return hs
}

// bindings are the escape-key and backdrop-click listeners of one open panel
type bindings struct {
	release []func()
}

func (b *bindings) installed() bool {
	return b != nil && len(b.release) > 0
}

func (b *bindings) remove() {
	if b == nil {
		return
	}
	for _, r := range b.release {
		r()
	}
	b.release = nil
}

// installDismissal wires escape and backdrop-click dismissal for p
func installDismissal(c *Coordinator, p *Panel) *bindings {
	b := &bindings{}
	b.release = append(b.release, c.input.onKey(func(key string) {
		if isEscape(key) && p.opts.CloseOnEscape {
			p.Close(nil, EventData{})
		}
	}))
	b.release = append(b.release, c.input.onClick(func(t Target) {
		if t.Kind == TargetWrapper && t.PanelID == p.id && p.opts.CloseOnOverlay {
			p.Close(nil, EventData{})
		}
	}))
	return b
}

// DismissalInstalled reports whether the escape/backdrop listeners are live
func (p *Panel) DismissalInstalled() bool {
	return p.dismissal.installed()
}

// InputListeners returns the number of live key and click listeners,
// including every panel's close-action listener
func (c *Coordinator) InputListeners() int {
	return c.input.listeners()
}
