package modal

// Registry is the single slot holding the active panel. It is the only
// source of truth for whether a panel is open.
type Registry struct {
	active *Panel
}

// Get returns the active panel or nil
func (r *Registry) Get() *Panel {
	return r.active
}

// Set replaces the active panel. Only panel transitions call it, under
// the transitioning panel's busy guard.
func (r *Registry) Set(p *Panel) {
	r.active = p
}
