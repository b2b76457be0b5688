package monitor

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/modalkit/internal/config"
)

// Built-in panel ids. A configured panel with the same id replaces the
// built-in one.
const (
	FinderPanelID = "finder"
	HelpPanelID   = "help"
	// QuitPanelID names the confirm panel consulted before quitting
	QuitPanelID = "quit"
)

// Panel kinds the monitor draws itself
const (
	kindFinder = "finder"
	kindHelp   = "help"
)

const closeButton = "[x]"

// panelContent is what the monitor draws inside one panel
type panelContent struct {
	cfg config.PanelConfig

	// markdown bodies, rendered once per width and style
	rendered      string
	renderedWidth int
	renderedStyle string
	offset        int

	// confirm panels; rebuilt on every open
	form   *huh.Form
	answer bool
}

func newContent(cfg config.PanelConfig) *panelContent {
	return &panelContent{cfg: cfg}
}

func (c *panelContent) kind() string {
	if c.cfg.Kind == "" {
		return config.KindMarkdown
	}
	return c.cfg.Kind
}

func (c *panelContent) title() string {
	if c.cfg.Title != "" {
		return c.cfg.Title
	}
	return c.cfg.ID
}

// markdown renders the body with glamour, falling back to the raw text
func (c *panelContent) markdown(width int, style string) string {
	if c.renderedWidth == width && c.renderedStyle == style && c.rendered != "" {
		return c.rendered
	}
	out := c.cfg.Body
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if s, err := r.Render(c.cfg.Body); err == nil {
			out = strings.Trim(s, "\n")
		}
	}
	c.rendered, c.renderedWidth, c.renderedStyle = out, width, style
	return out
}

// window returns height lines of body starting at the scroll offset
func (c *panelContent) window(body string, width, height int) string {
	lines := strings.Split(body, "\n")
	c.offset = clamp(c.offset, 0, max(0, len(lines)-height))
	end := min(len(lines), c.offset+height)
	visible := lines[c.offset:end]
	for i, line := range visible {
		visible[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(visible, "\n")
}

// scroll moves the body window; the next render clamps it
func (c *panelContent) scroll(delta int) {
	c.offset = max(0, c.offset+delta)
}

// resetForm builds a fresh confirm form. huh forms cannot be rewound, so
// every open gets a new one.
func (c *panelContent) resetForm(width int) *huh.Form {
	c.answer = false
	prompt := c.cfg.Body
	if prompt == "" {
		prompt = "Are you sure?"
	}
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&c.answer),
		),
	).WithShowHelp(false).WithWidth(width)
	return c.form
}

// renderedPanel is a drawn panel plus the offsets of its clickable parts,
// relative to the panel's top-left corner
type renderedPanel struct {
	view   string
	closeX int
	closeY int
	// items maps a panel row to the id listed there
	items map[int]string
}

// bodyTop is the first panel row holding body text
const bodyTop = 1 + headerRows

// frame draws the border, a title row with a close button, and body. A
// busy panel gets a muted border until its transition settles.
func frame(title, body string, width int, busy, hoverClose bool) renderedPanel {
	inner := max(len(closeButton)+1, width-frameWidth)
	t := ansi.Truncate(panelTitleStyle.Render(title), inner-len(closeButton)-1, "…")
	gap := inner - lipgloss.Width(t) - len(closeButton)

	button := closeButtonStyle.Render(closeButton)
	if hoverClose {
		button = closeButtonHoverStyle.Render(closeButton)
	}
	header := t + strings.Repeat(" ", gap) + button

	style := panelStyle
	if busy {
		style = panelPlainStyle
	}
	view := style.Width(inner + 2).Render(header + "\n\n" + body)
	return renderedPanel{
		view:   view,
		closeX: 2 + inner - len(closeButton),
		closeY: 1,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
