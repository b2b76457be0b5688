package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func plainPrinter(t *testing.T, width int) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var out, errOut bytes.Buffer
	return &Printer{Out: &out, Err: &errOut, Width: width}, &out, &errOut
}

func TestPrinterLines(t *testing.T) {
	p, out, errOut := plainPrinter(t, 80)

	p.Section("Panels")
	p.Success("bound %d panels", 3)
	p.Warning("trigger %q unused", "x")
	p.Info("plain %s", "line")
	p.Dim("quiet")
	p.Error("failed: %v", "boom")

	want := "▸ Panels\n✓ bound 3 panels\n⚠ trigger \"x\" unused\nplain line\nquiet\n"
	if out.String() != want {
		t.Errorf("stdout:\n got %q\nwant %q", out.String(), want)
	}
	if errOut.String() != "✗ failed: boom\n" {
		t.Errorf("stderr: got %q", errOut.String())
	}
}

func TestTable(t *testing.T) {
	tests := []struct {
		name  string
		width int
		rows  [][]string
		want  []string
	}{
		{
			name:  "aligned",
			width: 80,
			rows:  [][]string{{"about", "markdown", "a"}, {"quit", "confirm", ""}},
			want: []string{
				"ID     KIND      TRIGGERS",
				"about  markdown  a",
				"quit   confirm",
			},
		},
		{
			name:  "last column truncated",
			width: 22,
			rows:  [][]string{{"about", "markdown", "a, b, c, d, e"}},
			want: []string{
				"ID     KIND      TRIG…",
				"about  markdown  a, b…",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out, _ := plainPrinter(t, tt.width)
			p.Table([]string{"ID", "KIND", "TRIGGERS"}, tt.rows)
			got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("table:\n got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestTableNoHeaders(t *testing.T) {
	p, out, _ := plainPrinter(t, 80)
	p.Table(nil, [][]string{{"x"}})
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestTerminalWidthNonTerminal(t *testing.T) {
	if got := TerminalWidth(&bytes.Buffer{}); got != DefaultWidth {
		t.Errorf("TerminalWidth(buffer) = %d, want %d", got, DefaultWidth)
	}
	if _, _, ok := TerminalSize(&bytes.Buffer{}); ok {
		t.Error("a buffer is not a terminal")
	}
}
