// Package termpage implements modal.Page for a terminal screen: a titled,
// scrollable text body with a scrollbar gutter on its right edge.
package termpage

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/modalkit/pkg/modal"
)

var _ modal.Page = (*Page)(nil)

// Config configures a Page
type Config struct {
	Title string
	Body  string
	// LockClass is the page class that freezes scrolling and hides the
	// scrollbar while a panel is open, e.g. "modal-open"
	LockClass string
	Styles    Styles
}

// Page is a terminal page. Width and height are set by the host on resize.
type Page struct {
	title string
	body  string

	width, height int
	padding       int
	classes       map[string]bool
	lockClass     string

	overlay      bool
	overlayClass string

	vp     viewport.Model
	styles Styles
}

// New creates a page with no size. Call SetSize before rendering.
func New(cfg Config) *Page {
	styles := cfg.Styles
	if styles.isZero() {
		styles = DefaultStyles()
	}
	lock := cfg.LockClass
	if lock == "" {
		lock = modal.DefaultNamespace + "-open"
	}
	p := &Page{
		title:     cfg.Title,
		body:      cfg.Body,
		classes:   make(map[string]bool),
		lockClass: lock,
		vp:        viewport.New(0, 0),
		styles:    styles,
	}
	return p
}

// SetSize resizes the page
func (p *Page) SetSize(width, height int) {
	p.width = max(0, width)
	p.height = max(0, height)
	p.layout()
}

// SetContent replaces the title and body
func (p *Page) SetContent(title, body string) {
	p.title = title
	p.body = body
	p.layout()
}

// Size returns the page dimensions
func (p *Page) Size() (int, int) {
	return p.width, p.height
}

// ViewportWidth implements modal.Page
func (p *Page) ViewportWidth() int {
	return p.width
}

// ContentWidth implements modal.Page. A visible scrollbar takes its gutter
// out of the width; padding does not.
func (p *Page) ContentWidth() int {
	if p.ScrollbarVisible() {
		return max(0, p.width-p.gutterWidth())
	}
	return p.width
}

// PaddingRight implements modal.Page
func (p *Page) PaddingRight() int {
	return p.padding
}

// SetPaddingRight implements modal.Page
func (p *Page) SetPaddingRight(n int) {
	p.padding = max(0, n)
	p.layout()
}

// ResetStyle implements modal.Page
func (p *Page) ResetStyle() {
	p.padding = 0
	p.layout()
}

// SetClass implements modal.Page
func (p *Page) SetClass(name string, on bool) {
	if on {
		p.classes[name] = true
	} else {
		delete(p.classes, name)
	}
	p.layout()
}

// HasClass reports whether a page class is set
func (p *Page) HasClass(name string) bool {
	return p.classes[name]
}

// MountOverlay implements modal.Page
func (p *Page) MountOverlay(class string) {
	p.overlay = true
	p.overlayClass = class
}

// UnmountOverlay implements modal.Page
func (p *Page) UnmountOverlay() {
	p.overlay = false
	p.overlayClass = ""
}

// OverlayMounted reports whether the backdrop is drawn
func (p *Page) OverlayMounted() bool {
	return p.overlay
}

// OverlayClass returns the class the backdrop was mounted with
func (p *Page) OverlayClass() string {
	return p.overlayClass
}

// ProbeScrollbar implements modal.Page. It renders a fixed-width box with
// and without a scrollbar track beside it and measures both.
func (p *Page) ProbeScrollbar() (int, int) {
	inner := lipgloss.NewStyle().Width(probeWidth).Height(probeHeight).Render("")
	track := strings.Repeat(p.styles.Track.Render(p.styles.TrackGlyph)+"\n", probeHeight-1) +
		p.styles.Track.Render(p.styles.TrackGlyph)
	outer := lipgloss.JoinHorizontal(lipgloss.Top, inner, track)
	return lipgloss.Width(outer), lipgloss.Width(inner)
}

const (
	probeWidth  = 10
	probeHeight = 3
)

// Locked reports whether a panel holds the page
func (p *Page) Locked() bool {
	return p.classes[p.lockClass]
}

// Overflows reports whether the body is taller than the space for it
func (p *Page) Overflows() bool {
	if p.width <= 0 || p.bodyHeight() <= 0 {
		return false
	}
	return len(p.wrap(p.width-p.gutterWidth())) > p.bodyHeight()
}

// ScrollbarVisible reports whether the gutter is drawn. A locked page hides
// its scrollbar the way overflow:hidden does.
func (p *Page) ScrollbarVisible() bool {
	return p.Overflows() && !p.Locked()
}

// TextWidth returns the width the body is wrapped to
func (p *Page) TextWidth() int {
	w := p.width - p.padding
	if p.ScrollbarVisible() {
		w -= p.gutterWidth()
	}
	return max(1, w)
}

// ScrollDown scrolls the body unless the page is locked
func (p *Page) ScrollDown(n int) {
	if !p.Locked() {
		p.vp.LineDown(n)
	}
}

// ScrollUp scrolls the body unless the page is locked
func (p *Page) ScrollUp(n int) {
	if !p.Locked() {
		p.vp.LineUp(n)
	}
}

// ScrollOffset returns the index of the first visible body line
func (p *Page) ScrollOffset() int {
	return p.vp.YOffset
}

func (p *Page) bodyHeight() int {
	return max(0, p.height-1)
}

func (p *Page) gutterWidth() int {
	return lipgloss.Width(p.styles.TrackGlyph)
}

func (p *Page) wrap(width int) []string {
	if width <= 0 {
		return nil
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(p.body)
	return strings.Split(wrapped, "\n")
}

func (p *Page) layout() {
	p.vp.Width = p.TextWidth()
	p.vp.Height = p.bodyHeight()
	p.vp.SetContent(strings.Join(p.wrap(p.TextWidth()), "\n"))
}

// View renders the page at exactly width x height
func (p *Page) View() string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}

	lines := make([]string, 0, p.height)
	lines = append(lines, fit(p.styles.Title.Render(p.title), p.width))

	body := strings.Split(p.vp.View(), "\n")
	gutter := p.gutter()
	textW := p.TextWidth()
	for i := 0; i < p.bodyHeight(); i++ {
		var line string
		if i < len(body) {
			line = body[i]
		}
		line = fit(p.styles.Body.Render(line), textW) + strings.Repeat(" ", p.padding)
		if gutter != nil {
			line += gutter[i]
		}
		lines = append(lines, fit(line, p.width))
	}
	return strings.Join(lines, "\n")
}

// gutter returns one rendered scrollbar cell per body row, or nil when hidden
func (p *Page) gutter() []string {
	if !p.ScrollbarVisible() {
		return nil
	}
	h := p.bodyHeight()
	total := max(p.vp.TotalLineCount(), 1)
	thumb := max(1, h*h/total)
	top := int(p.vp.ScrollPercent() * float64(h-thumb))

	cells := make([]string, h)
	for i := range cells {
		if i >= top && i < top+thumb {
			cells[i] = p.styles.Thumb.Render(p.styles.ThumbGlyph)
		} else {
			cells[i] = p.styles.Track.Render(p.styles.TrackGlyph)
		}
	}
	return cells
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
