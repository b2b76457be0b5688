package monitor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/modalkit/pkg/modal"
)

// finder is the fuzzy panel picker shown in the built-in finder panel
type finder struct {
	query   string
	matches []string
	cursor  int
	offset  int
}

// reset clears the query and lists every panel
func (f *finder) reset(c *modal.Coordinator) {
	f.query = ""
	f.cursor = 0
	f.offset = 0
	f.refresh(c)
}

// refresh recomputes matches for the current query
func (f *finder) refresh(c *modal.Coordinator) {
	f.matches = f.matches[:0]
	for _, p := range c.Find(f.query) {
		if p.ID() == FinderPanelID {
			continue
		}
		f.matches = append(f.matches, p.ID())
	}
	f.cursor = clamp(f.cursor, 0, max(0, len(f.matches)-1))
}

// input edits the query. It reports whether the query changed.
func (f *finder) input(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		f.query += string(msg.Runes)
		f.cursor = 0
		return true
	case tea.KeySpace:
		f.query += " "
		f.cursor = 0
		return true
	case tea.KeyBackspace:
		if f.query == "" {
			return false
		}
		r := []rune(f.query)
		f.query = string(r[:len(r)-1])
		f.cursor = 0
		return true
	}
	return false
}

func (f *finder) move(delta int) {
	if len(f.matches) == 0 {
		return
	}
	f.cursor = clamp(f.cursor+delta, 0, len(f.matches)-1)
}

func (f *finder) selected() (string, bool) {
	if f.cursor < 0 || f.cursor >= len(f.matches) {
		return "", false
	}
	return f.matches[f.cursor], true
}

// view renders the query line and a scrolling window of matches. rows maps
// each rendered body line to the panel id listed on it.
func (f *finder) view(width, height int) (string, map[int]string) {
	lines := []string{ansi.Truncate(queryStyle.Render("> ")+f.query+"▏", width, "")}
	rows := make(map[int]string)
	if len(f.matches) == 0 {
		lines = append(lines, mutedText.Render("(no matching panels)"))
		return strings.Join(lines, "\n"), rows
	}

	// query line plus up to two scroll indicators
	visible := min(max(1, height-3), len(f.matches))

	// keep the cursor visible
	if f.cursor < f.offset {
		f.offset = f.cursor
	} else if f.cursor >= f.offset+visible {
		f.offset = f.cursor - visible + 1
	}
	f.offset = clamp(f.offset, 0, max(0, len(f.matches)-visible))

	if f.offset > 0 {
		lines = append(lines, mutedText.Render("↑ more above"))
	}
	for i := 0; i < visible; i++ {
		idx := f.offset + i
		if idx >= len(f.matches) {
			break
		}
		cursor, style := "  ", listItemNormal
		if idx == f.cursor {
			cursor, style = listCursor.Render("> "), listItemSelected
		}
		rows[len(lines)] = f.matches[idx]
		lines = append(lines, ansi.Truncate(cursor+style.Render(f.matches[idx]), width, "…"))
	}
	if f.offset+visible < len(f.matches) {
		lines = append(lines, mutedText.Render("↓ more below"))
	}
	return strings.Join(lines, "\n"), rows
}
