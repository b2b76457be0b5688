package modal

// Page is the surface panels are layered over. The coordinator never draws;
// it only asks the page to change the few properties the lifecycle owns.
type Page interface {
	// ViewportWidth is the full width available to the page. Zero means unknown.
	ViewportWidth() int
	// ContentWidth is the width left for content after any scrollbar
	ContentWidth() int

	// PaddingRight reads the page's current right padding
	PaddingRight() int
	// SetPaddingRight replaces the page's right padding
	SetPaddingRight(n int)
	// ResetStyle drops every inline style the coordinator applied
	ResetStyle()

	// SetClass toggles a page-level class
	SetClass(name string, on bool)

	// MountOverlay creates the shared backdrop with the given class
	MountOverlay(class string)
	// UnmountOverlay destroys the shared backdrop
	UnmountOverlay()

	// ProbeScrollbar renders an off-screen scrollable box and reports its
	// outer and inner widths
	ProbeScrollbar() (outer, inner int)
}

// Element is the caller-owned content node a panel wraps. The coordinator
// keeps a reference but never mutates it.
type Element = any

// MetadataSource is implemented by elements that carry declarative options
type MetadataSource interface {
	ModalOptions() Overrides
}

// Identified is implemented by elements that declare their own panel id
type Identified interface {
	ModalID() string
}

// Wrapper is the container a panel creates around its element. It owns the
// presentation classes that Refresh recomputes.
type Wrapper struct {
	classes []string
}

// Classes returns a copy of the wrapper's classes
func (w *Wrapper) Classes() []string {
	out := make([]string, len(w.classes))
	copy(out, w.classes)
	return out
}

// HasClass reports whether name is present
func (w *Wrapper) HasClass(name string) bool {
	for _, c := range w.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (w *Wrapper) addClass(name string) {
	if !w.HasClass(name) {
		w.classes = append(w.classes, name)
	}
}

func (w *Wrapper) removeClass(name string) {
	for i, c := range w.classes {
		if c == name {
			w.classes = append(w.classes[:i], w.classes[i+1:]...)
			return
		}
	}
}
