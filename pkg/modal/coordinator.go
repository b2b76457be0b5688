package modal

import (
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// DefaultNamespace prefixes every class name the coordinator applies
const DefaultNamespace = "modal"

// Coordinator owns the state shared by all panels: the active-panel slot,
// the backdrop, the scrollbar measurement, and the scheduler that runs
// after-events. Construct one per process (or per test) and bind panels to it.
//
// A Coordinator is not safe for concurrent use. Every call must come from
// the host's event loop.
type Coordinator struct {
	page      Page
	scheduler Scheduler
	logger    *slog.Logger
	namespace string

	registry Registry
	overlay  *Overlay
	scroll   *ScrollGuard

	panels    map[string]*Panel
	order     []string
	listeners emitter
	input     inputBus
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithLogger sets the logger used for transition diagnostics
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNamespace changes the class prefix (default "modal")
func WithNamespace(ns string) CoordinatorOption {
	return func(c *Coordinator) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// NewCoordinator creates a coordinator drawing on page and deferring
// after-events through scheduler
func NewCoordinator(page Page, scheduler Scheduler, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		page:      page,
		scheduler: scheduler,
		logger:    slog.Default(),
		namespace: DefaultNamespace,
		panels:    make(map[string]*Panel),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.overlay = newOverlay(page, c.Prefixed("overlay"))
	c.scroll = newScrollGuard(page)
	return c
}

// Prefixed returns name with the namespace prefix, e.g. "modal-open"
func (c *Coordinator) Prefixed(name string) string {
	return c.namespace + "-" + name
}

// Namespace returns the class prefix in use
func (c *Coordinator) Namespace() string {
	return c.namespace
}

// Registry exposes the active-panel slot
func (c *Coordinator) Registry() *Registry {
	return &c.registry
}

// Overlay exposes the backdrop manager
func (c *Coordinator) Overlay() *Overlay {
	return c.overlay
}

// ScrollGuard exposes the scrollbar measurement
func (c *Coordinator) ScrollGuard() *ScrollGuard {
	return c.scroll
}

// Page returns the page panels are layered over
func (c *Coordinator) Page() Page {
	return c.page
}

// Instance returns the active panel or nil
func (c *Coordinator) Instance() *Panel {
	return c.registry.Get()
}

// Bind returns the panel registered under id, constructing it on first use.
// An element implementing MetadataSource contributes declarative options;
// overrides win over them. Overrides passed for an already bound id are
// ignored, matching first-binding-wins semantics.
//
// An empty id is taken from an Identified element. When neither supplies
// one, nothing is bound and Bind returns nil: the empty id means "the
// active panel" to Close.
func (c *Coordinator) Bind(id string, el Element, overrides Overrides) *Panel {
	if id == "" {
		if ided, ok := el.(Identified); ok {
			id = ided.ModalID()
		}
	}
	if id == "" {
		c.logger.Warn("bind refused: panel has no id")
		return nil
	}
	if p, ok := c.panels[id]; ok {
		return p
	}

	var metadata Overrides
	if src, ok := el.(MetadataSource); ok {
		metadata = src.ModalOptions()
	}

	p := newPanel(c, id, el, ResolveOptions(metadata, overrides))
	c.panels[id] = p
	c.order = append(c.order, id)
	c.logger.Debug("panel bound", "panel", id, "overlay", p.opts.Overlay)

	p.emit(EventInitialize, EventData{}, nil)
	p.Refresh()
	p.bindListeners()
	return p
}

// Lookup returns the panel bound under id
func (c *Coordinator) Lookup(id string) (*Panel, bool) {
	p, ok := c.panels[id]
	return p, ok
}

// Panels returns bound panels in binding order
func (c *Coordinator) Panels() []*Panel {
	out := make([]*Panel, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.panels[id])
	}
	return out
}

// Find returns panels whose id fuzzy-matches query, best match first.
// An empty query returns every panel in binding order.
func (c *Coordinator) Find(query string) []*Panel {
	if query == "" {
		return c.Panels()
	}
	matches := fuzzy.Find(query, c.order)
	out := make([]*Panel, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.panels[m.Str])
	}
	return out
}

// Open opens the panel bound under id. Policy rejections are silent;
// only an unknown id is an error.
func (c *Coordinator) Open(id string, data any, ed EventData) error {
	p, ok := c.panels[id]
	if !ok {
		c.logger.Debug("open unknown panel", "panel", id)
		return ErrUnknownPanel
	}
	p.Open(data, ed)
	return nil
}

// Close closes the panel bound under id, or the active panel when id is empty
func (c *Coordinator) Close(id string, data any, ed EventData) error {
	if id == "" {
		if active := c.registry.Get(); active != nil {
			active.Close(data, ed)
		}
		return nil
	}
	p, ok := c.panels[id]
	if !ok {
		c.logger.Debug("close unknown panel", "panel", id)
		return ErrUnknownPanel
	}
	p.Close(data, ed)
	return nil
}

// On registers a listener that sees events from every panel, after the
// panel's own listeners
func (c *Coordinator) On(t EventType, fn Listener) *Subscription {
	return c.listeners.add(t, fn, false)
}

// KeyUp delivers a key release to the installed dismissal bindings
func (c *Coordinator) KeyUp(key string) {
	c.input.key(key)
}

// Click delivers a pointer click. Trigger targets open their panel;
// everything else goes to the installed bindings.
func (c *Coordinator) Click(t Target) {
	if t.Kind == TargetTrigger {
		if err := c.Open(t.PanelID, nil, EventData{RelatedTarget: t}); err != nil {
			c.logger.Debug("trigger target not bound", "panel", t.PanelID)
		}
		return
	}
	c.input.click(t)
}

func (c *Coordinator) unbind(p *Panel) {
	delete(c.panels, p.id)
	for i, id := range c.order {
		if id == p.id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
