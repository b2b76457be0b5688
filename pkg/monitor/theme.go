package monitor

import (
	"io"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the detected terminal colour capability
type Theme struct {
	Profile termenv.Profile
	Dark    bool
}

// DetectTheme inspects the terminal behind w. It may query the terminal
// for its background colour, so call it before the program starts.
func DetectTheme(w io.Writer) Theme {
	out := termenv.NewOutput(w)
	return Theme{
		Profile: out.EnvColorProfile(),
		Dark:    out.HasDarkBackground(),
	}
}

// PlainTheme renders without colour. Tests use it for stable output.
func PlainTheme() Theme {
	return Theme{Profile: termenv.Ascii, Dark: true}
}

// Apply sets the lipgloss colour profile
func (t Theme) Apply() {
	lipgloss.SetColorProfile(t.Profile)
}

// GlamourStyle names the glamour standard style for markdown bodies
func (t Theme) GlamourStyle() string {
	switch {
	case t.Profile == termenv.Ascii:
		return styles.NoTTYStyle
	case t.Dark:
		return styles.DarkStyle
	default:
		return styles.LightStyle
	}
}
