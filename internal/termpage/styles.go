package termpage

import "github.com/charmbracelet/lipgloss"

// Styles controls how the page, its scrollbar and the backdrop are drawn
type Styles struct {
	Title    lipgloss.Style
	Body     lipgloss.Style
	Track    lipgloss.Style
	Thumb    lipgloss.Style
	Backdrop lipgloss.Style

	TrackGlyph string
	ThumbGlyph string
}

// DefaultStyles returns the 256-colour defaults
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Body:       lipgloss.NewStyle(),
		Track:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Thumb:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Backdrop:   lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
		TrackGlyph: "│",
		ThumbGlyph: "┃",
	}
}

func (s Styles) isZero() bool {
	return s.TrackGlyph == "" && s.ThumbGlyph == ""
}
