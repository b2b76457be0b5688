package modal

// State is the lifecycle state of a panel
type State string

const (
	StateClosed  State = "closed"
	StateOpening State = "opening"
	StateOpen    State = "open"
	StateClosing State = "closing"
)

// Panel is one dialog and its lifecycle. Create panels with Coordinator.Bind.
type Panel struct {
	coord     *Coordinator
	id        string
	element   Element
	wrapper   *Wrapper
	opts      Options
	busy      bool
	state     State
	destroyed bool

	listeners   emitter
	dismissal   *bindings
	closeAction func()
}

func newPanel(c *Coordinator, id string, el Element, opts Options) *Panel {
	return &Panel{
		coord:   c,
		id:      id,
		element: el,
		wrapper: &Wrapper{},
		opts:    opts,
		state:   StateClosed,
	}
}

// bindListeners wires what every panel has from construction: the close
// action inside its content, and installing dismissal once it has opened
func (p *Panel) bindListeners() {
	p.closeAction = p.coord.input.onClick(func(t Target) {
		if t.Kind == TargetCloseAction && t.PanelID == p.id {
			p.Close(nil, EventData{})
		}
	})
	p.On(EventAfterOpen, Observe(func(Event) {
		p.dismissal.remove()
		p.dismissal = installDismissal(p.coord, p)
	}))
}

// ID returns the identifier the panel is bound under
func (p *Panel) ID() string { return p.id }

// Element returns the caller-owned content
func (p *Panel) Element() Element { return p.element }

// Wrapper returns the container the panel owns
func (p *Panel) Wrapper() *Wrapper { return p.wrapper }

// State returns the lifecycle state
func (p *Panel) State() State { return p.state }

// Busy reports whether a transition is in flight
func (p *Panel) Busy() bool { return p.busy }

// Destroyed reports whether Destroy has run
func (p *Panel) Destroyed() bool { return p.destroyed }

// IsOpen reports whether this panel is the coordinator's active panel
func (p *Panel) IsOpen() bool {
	return p.coord.registry.Get() == p
}

// Options returns a copy of the resolved options
func (p *Panel) Options() Options { return p.opts }

// Option reads one option
func (p *Panel) Option(key OptionKey) (any, bool) {
	return p.opts.Get(key)
}

// SetOption writes one option and refreshes presentation classes
func (p *Panel) SetOption(key OptionKey, value any) error {
	ov, err := OverrideFor(key, value)
	if err != nil {
		return err
	}
	p.SetOptions(ov)
	return nil
}

// SetOptions merges ov into the options and refreshes presentation classes
func (p *Panel) SetOptions(ov Overrides) *Panel {
	p.opts = p.opts.Merge(ov)
	p.Refresh()
	return p
}

// Refresh recomputes the wrapper's classes from the options and open-ness
func (p *Panel) Refresh() *Panel {
	c := p.coord
	classes := []string{c.Prefixed("container")}
	if p.opts.Position != PositionNone {
		classes = append(classes, c.Prefixed("align-"+string(p.opts.Position)))
	}
	if p.opts.ContainerClass != "" {
		classes = append(classes, p.opts.ContainerClass)
	}
	if p.IsOpen() {
		classes = append(classes, c.Prefixed("is-open"))
	}
	p.wrapper.classes = classes
	return p
}

// On registers a listener for this panel's events
func (p *Panel) On(t EventType, fn Listener) *Subscription {
	return p.listeners.add(t, fn, false)
}

// Once registers a listener removed after its first call
func (p *Panel) Once(t EventType, fn Listener) *Subscription {
	return p.listeners.add(t, fn, true)
}

// emit runs panel listeners then document-level listeners
func (p *Panel) emit(t EventType, ed EventData, payload any) Verdict {
	ev := Event{Type: t, Panel: p, Data: ed, Payload: payload}
	v := p.listeners.emit(ev)
	if p.coord.listeners.emit(ev) == Cancelled {
		v = Cancelled
	}
	return v
}

// Open opens the panel, closing the active one first if there is one.
// Refusals are silent; use TryOpen to learn why.
func (p *Panel) Open(data any, ed EventData) *Panel {
	_ = p.TryOpen(data, ed)
	return p
}

// Close closes the panel. Refusals are silent; use TryClose to learn why.
func (p *Panel) Close(data any, ed EventData) *Panel {
	_ = p.TryClose(data, ed)
	return p
}

// Toggle closes an open panel and opens a closed one
func (p *Panel) Toggle(data any, ed EventData) *Panel {
	if p.IsOpen() {
		return p.Close(data, ed)
	}
	return p.Open(data, ed)
}

func (p *Panel) refuse(to State, reason Reason, related *Panel) error {
	err := &TransitionError{PanelID: p.id, From: p.state, To: to, Reason: reason}
	if related != nil {
		err.Related = related.id
	}
	p.coord.logger.Debug("transition refused", "panel", p.id, "to", to, "reason", reason, "related", err.Related)
	return err
}

// TryOpen is Open that reports refusals as a *TransitionError
func (p *Panel) TryOpen(data any, ed EventData) error {
	switch {
	case p.destroyed:
		return p.refuse(StateOpen, ReasonDestroyed, nil)
	case p.busy:
		return p.refuse(StateOpen, ReasonBusy, nil)
	case p.IsOpen():
		return p.refuse(StateOpen, ReasonAlreadyOpen, nil)
	}

	c := p.coord
	p.busy = true
	p.state = StateOpening

	prev := c.registry.Get()
	if prev != nil && prev != p {
		prev.Close(nil, EventData{RelatedModal: p})
		if prev.IsOpen() {
			p.busy = false
			p.state = StateClosed
			return p.refuse(StateOpen, ReasonHandoffRefused, prev)
		}
		ed.RelatedModal = prev
	}

	if p.emit(EventBeforeOpen, ed, data) == Cancelled {
		if prev != nil {
			p.abandonHandoff()
		}
		p.busy = false
		p.state = StateClosed
		return p.refuse(StateOpen, ReasonVetoed, prev)
	}

	if p.opts.Overlay {
		c.overlay.Ensure()
	}

	if prev == nil && c.scroll.IsPageScrollable() {
		if width := c.scroll.MeasureScrollbarWidth(); width > 0 {
			c.page.SetPaddingRight(c.page.PaddingRight() + width)
		}
	}

	c.page.SetClass(c.Prefixed("open"), true)
	p.wrapper.addClass(c.Prefixed("is-open"))
	c.registry.Set(p)
	p.state = StateOpen
	c.logger.Debug("panel opened", "panel", p.id, "handoff", prev != nil)

	c.scheduler.Defer(func() {
		if !p.destroyed {
			p.emit(EventAfterOpen, ed, data)
		}
		p.busy = false
	})
	return nil
}

// abandonHandoff undoes a handoff whose incoming open was vetoed. The
// outgoing panel already closed as a handoff, so it skipped the top-level
// cleanup and left the slot pointing here; finish that cleanup now.
func (p *Panel) abandonHandoff() {
	c := p.coord
	if c.registry.Get() == p {
		c.registry.Set(nil)
	}
	c.page.SetClass(c.Prefixed("open"), false)
	c.page.ResetStyle()
	c.overlay.Dispose()
}

// TryClose is Close that reports refusals as a *TransitionError
func (p *Panel) TryClose(data any, ed EventData) error {
	switch {
	case p.destroyed:
		return p.refuse(StateClosed, ReasonDestroyed, nil)
	case p.busy:
		return p.refuse(StateClosed, ReasonBusy, nil)
	case !p.IsOpen():
		return p.refuse(StateClosed, ReasonNotOpen, nil)
	}

	c := p.coord
	p.busy = true
	p.state = StateClosing
	next := ed.RelatedModal

	if p.emit(EventBeforeClose, ed, data) == Cancelled {
		p.busy = false
		p.state = StateOpen
		return p.refuse(StateClosed, ReasonVetoed, next)
	}
	p.dismissal.remove()

	p.wrapper.removeClass(c.Prefixed("is-open"))
	if next == nil {
		c.page.SetClass(c.Prefixed("open"), false)
		c.page.ResetStyle()
	}

	if next == nil || !next.opts.Overlay {
		c.overlay.Dispose()
	}

	c.registry.Set(next)
	p.state = StateClosed
	c.logger.Debug("panel closed", "panel", p.id, "handoff", next != nil)

	c.scheduler.Defer(func() {
		if !p.destroyed {
			p.emit(EventAfterClose, ed, data)
		}
		p.busy = false
	})
	return nil
}

// Destroy unbinds the panel from its coordinator and releases its
// listeners. An open panel is closed first. Destroying a busy panel, or
// one whose close is vetoed, is refused.
func (p *Panel) Destroy() error {
	if p.destroyed {
		return nil
	}
	if p.busy {
		return p.refuse(StateClosed, ReasonBusy, nil)
	}
	if p.IsOpen() {
		if err := p.TryClose(nil, EventData{}); err != nil {
			return err
		}
	}
	p.destroyed = true
	p.dismissal.remove()
	if p.closeAction != nil {
		p.closeAction()
		p.closeAction = nil
	}
	p.coord.unbind(p)
	return nil
}
