package modal

// ScrollGuard decides whether opening a panel needs padding compensation
// and how much.
type ScrollGuard struct {
	page     Page
	width    int
	measured bool
}

func newScrollGuard(page Page) *ScrollGuard {
	return &ScrollGuard{page: page}
}

// MeasureScrollbarWidth probes the page once and memoizes the result.
// The width is a property of the environment, not of any panel.
func (g *ScrollGuard) MeasureScrollbarWidth() int {
	if !g.measured {
		outer, inner := g.page.ProbeScrollbar()
		g.width = max(0, outer-inner)
		g.measured = true
	}
	return g.width
}

// Measured reports whether the probe has run
func (g *ScrollGuard) Measured() bool {
	return g.measured
}

// IsPageScrollable reports whether the page currently shows a scrollbar.
// Recomputed on every call since opening and closing panels changes it.
func (g *ScrollGuard) IsPageScrollable() bool {
	viewport := g.page.ViewportWidth()
	if viewport <= 0 {
		return false
	}
	return g.page.ContentWidth() < viewport
}
