// Package output formats command-line output. Colours come from
// fatih/color, which disables itself when the writer is not a terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// DefaultWidth is used when the output is not a terminal
const DefaultWidth = 100

// Printer writes formatted output
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Width int
}

// New creates a printer sized to out's terminal
func New(out, errOut io.Writer) *Printer {
	return &Printer{Out: out, Err: errOut, Width: TerminalWidth(out)}
}

// TerminalWidth returns the column count of w's terminal, or DefaultWidth
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// TerminalSize returns the size of w's terminal, or false when w is not one
func TerminalSize(w io.Writer) (int, int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return width, height, true
}

// Section prints a section header
func (p *Printer) Section(title string) {
	_, _ = headerColor.Fprintf(p.Out, "▸ %s\n", title)
}

// Success prints a success line with a checkmark
func (p *Printer) Success(format string, args ...any) {
	_, _ = successColor.Fprintf(p.Out, "✓ "+format+"\n", args...)
}

// Warning prints a warning line
func (p *Printer) Warning(format string, args ...any) {
	_, _ = warningColor.Fprintf(p.Out, "⚠ "+format+"\n", args...)
}

// Error prints an error line to Err
func (p *Printer) Error(format string, args ...any) {
	_, _ = errorColor.Fprintf(p.Err, "✗ "+format+"\n", args...)
}

// Info prints a plain line
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Dim prints a de-emphasised line
func (p *Printer) Dim(format string, args ...any) {
	_, _ = dimColor.Fprintf(p.Out, format+"\n", args...)
}

// Highlight returns s in the info colour
func Highlight(s string) string {
	return infoColor.Sprint(s)
}

// Table prints rows under headers with aligned columns. The last column is
// truncated to fit the printer's width.
func (p *Printer) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], ansi.StringWidth(cell))
			}
		}
	}

	line := func(cells []string, c *color.Color) {
		var sb strings.Builder
		used := 0
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if i == len(widths)-1 {
				cell = ansi.Truncate(cell, max(1, p.Width-used), "…")
				sb.WriteString(cell)
				break
			}
			pad := widths[i] - ansi.StringWidth(cell)
			sb.WriteString(cell + strings.Repeat(" ", pad) + "  ")
			used += widths[i] + 2
		}
		if c != nil {
			_, _ = c.Fprintln(p.Out, strings.TrimRight(sb.String(), " "))
			return
		}
		fmt.Fprintln(p.Out, strings.TrimRight(sb.String(), " "))
	}

	line(headers, headerColor)
	for _, row := range rows {
		line(row, nil)
	}
}

// Error prints an error line to stderr
func Error(format string, args ...any) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}
