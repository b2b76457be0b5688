package termpage

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/modalkit/pkg/modal"
)

// Placement is where a panel landed on screen
type Placement struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether nothing was placed
func (pl Placement) Empty() bool {
	return pl.Width == 0 || pl.Height == 0
}

// Compose draws the page, the backdrop if mounted, and panel on top,
// aligned according to pos. An empty panel draws the page (and backdrop) only.
func (p *Page) Compose(panel string, pos modal.Position) (string, Placement) {
	view := p.View()
	if view == "" {
		return "", Placement{}
	}
	base := strings.Split(view, "\n")
	if p.overlay {
		for i, line := range base {
			base[i] = p.styles.Backdrop.Render(ansi.Strip(line))
		}
	}
	if panel == "" {
		return strings.Join(base, "\n"), Placement{}
	}

	pw := min(lipgloss.Width(panel), p.width)
	ph := min(lipgloss.Height(panel), p.height)
	pl := Placement{
		X:      (p.width - pw) / 2,
		Y:      verticalOffset(pos, p.height, ph),
		Width:  pw,
		Height: ph,
	}

	rows := strings.Split(panel, "\n")
	for i := 0; i < ph; i++ {
		base[pl.Y+i] = splice(base[pl.Y+i], rows[i], pl.X, pw)
	}
	return strings.Join(base, "\n"), pl
}

// verticalOffset maps a position to the panel's first row. Unknown
// positions fall back to center.
func verticalOffset(pos modal.Position, screen, panel int) int {
	free := max(0, screen-panel)
	switch pos {
	case modal.PositionTop:
		return min(1, free)
	case modal.PositionBottom:
		return max(0, free-1)
	case modal.PositionNone:
		return min(free, free/4+1)
	default:
		return free / 2
	}
}

// splice replaces width cells of line starting at column x with insert
func splice(line, insert string, x, width int) string {
	left := fit(line, x)
	right := ansi.TruncateLeft(line, x+width, "")
	return left + ansi.ResetStyle + fit(insert, width) + ansi.ResetStyle + right
}
