package modal

// OverlayStats counts backdrop creations and removals
type OverlayStats struct {
	Created   int
	Destroyed int
}

// Overlay manages the one backdrop shared by every panel. It exists iff the
// active panel wants it; no reference counting is needed beyond that because
// at most one panel is active.
type Overlay struct {
	page    Page
	class   string
	mounted bool
	stats   OverlayStats
}

func newOverlay(page Page, class string) *Overlay {
	return &Overlay{page: page, class: class}
}

// Ensure mounts the backdrop if absent. Returns true if it was created.
func (o *Overlay) Ensure() bool {
	if o.mounted {
		return false
	}
	o.page.MountOverlay(o.class)
	o.mounted = true
	o.stats.Created++
	return true
}

// Dispose removes the backdrop if present. Returns true if it was destroyed.
func (o *Overlay) Dispose() bool {
	if !o.mounted {
		return false
	}
	o.page.UnmountOverlay()
	o.mounted = false
	o.stats.Destroyed++
	return true
}

// Visible reports whether the backdrop currently exists
func (o *Overlay) Visible() bool {
	return o.mounted
}

// Stats returns lifetime counters
func (o *Overlay) Stats() OverlayStats {
	return o.stats
}
