package script

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/marcus/modalkit/pkg/modal"
)

func run(t *testing.T, src string) *Trace {
	t.Helper()
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	r := NewRunner(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	trace, err := r.Run(cmds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, f := range trace.Failures() {
		t.Errorf("line %d: %s", f.Command.Line, f.Failure)
	}
	return trace
}

// step returns the step for the command on the given script line
func step(t *testing.T, tr *Trace, line int) Step {
	t.Helper()
	for _, s := range tr.Steps {
		if s.Command.Line == line {
			return s
		}
	}
	t.Fatalf("no step for line %d", line)
	return Step{}
}

func TestParse(t *testing.T) {
	cmds, err := Parse(strings.NewReader(`
# comment
bind a overlay=false position=top
OPEN a payload

close
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if cmds[0].Line != 3 || cmds[0].Params["overlay"] != "false" || cmds[0].Params["position"] != "top" {
		t.Errorf("bind: got %+v", cmds[0])
	}
	if cmds[0].String() != "bind a overlay=false position=top" {
		t.Errorf("String(): got %q", cmds[0].String())
	}
	if cmds[1].Name != "open" || len(cmds[1].Args) != 2 {
		t.Errorf("open: got %+v", cmds[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown command", "jump a", `line 1: unknown command "jump"`},
		{"too few args", "open", "line 1: open takes 1-2 arguments, got 0"},
		{"too many args", "\nflush now", "line 2: flush takes 0 arguments, got 1"},
		{"set arity", "set a overlay", "line 1: set takes 3 arguments, got 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse error = %v, want *ParseError", err)
			}
			if err.Error() != tt.want {
				t.Errorf("error: got %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRun_OpenAndDismiss(t *testing.T) {
	tr := run(t, `page scrollable
bind a
open a hello
expect active a
expect padding 1
expect overlay on
expect state a open
flush
key esc
flush
expect active none
expect padding 0
expect overlay off
`)

	tests := []struct {
		line int
		want []string
	}{
		{3, []string{"a:beforeOpen"}},
		{8, []string{"a:afterOpen"}},
		{9, []string{"a:beforeClose"}},
		{10, []string{"a:afterClose"}},
	}
	for _, tt := range tests {
		got := step(t, tr, tt.line).Events
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("line %d events: got %v, want %v", tt.line, got, tt.want)
		}
	}
	if tr.Overlay.Created != 1 || tr.Overlay.Destroyed != 1 {
		t.Errorf("overlay stats: got %+v", tr.Overlay)
	}
}

func TestRun_Handoff(t *testing.T) {
	tr := run(t, `page scrollable
bind a
bind b overlay=false position=top
open a
flush
open b
expect active b
expect overlay off
expect padding 1
expect class b modal-align-top
expect class b modal-is-open
flush
`)

	if got := strings.Join(step(t, tr, 6).Events, " "); got != "a:beforeClose->b b:beforeOpen<-a" {
		t.Errorf("handoff events: got %q", got)
	}
	if got := strings.Join(step(t, tr, 12).Events, " "); got != "a:afterClose->b b:afterOpen<-a" {
		t.Errorf("deferred events: got %q", got)
	}
}

func TestRun_Refusals(t *testing.T) {
	tr := run(t, `bind a
bind b
open a
close a
flush
veto beforeClose a
open b
expect active a
allow beforeClose a
veto before-open
open b
expect active none
expect overlay off
destroy b
close
`)

	tests := []struct {
		line int
		want string
	}{
		{4, "busy"},
		{7, "handoff-refused (a)"},
		{11, "vetoed (a)"},
		{15, "nothing open"},
	}
	for _, tt := range tests {
		if got := step(t, tr, tt.line).Refusal; got != tt.want {
			t.Errorf("line %d refusal: got %q, want %q", tt.line, got, tt.want)
		}
	}
	if got := step(t, tr, 14).Refusal; got != "" {
		t.Errorf("destroy: got refusal %q", got)
	}
}

func TestRun_ClicksAndOptions(t *testing.T) {
	run(t, `bind a closeOnOverlay=false
click trigger a
flush
click content a
click wrapper a
expect active a
set a closeOnOverlay true
click wrapper a
expect active none
flush
open a
flush
click close a
expect active none
`)
}

func TestRun_FailedExpectation(t *testing.T) {
	cmds, _ := Parse(strings.NewReader("bind a\nexpect active a\nexpect bogus x\n"))
	tr, err := NewRunner(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))).Run(cmds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !tr.Failed() || len(tr.Failures()) != 2 {
		t.Fatalf("failures: got %+v", tr.Failures())
	}
	if tr.Failures()[0].Failure != "active: got none, want a" {
		t.Errorf("failure: got %q", tr.Failures()[0].Failure)
	}
}

func TestRun_CommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
		want   string
	}{
		{"unknown panel", "open nope", modal.ErrUnknownPanel, "line 1: open"},
		{"bad option", "bind a\nset a overlay maybe", nil, "line 2: set"},
		{"bad event", "veto afterOpen", nil, "cannot be vetoed"},
		{"bad bind param", "bind a colour=red", nil, `unknown option "colour"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := Parse(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			_, err = NewRunner(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))).Run(cmds)
			if err == nil {
				t.Fatal("Run should fail")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error %v is not %v", err, tt.target)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRun_Namespace(t *testing.T) {
	cmds, _ := Parse(strings.NewReader("bind a position=bottom\nopen a\nexpect class a dlg-align-bottom\nexpect class a dlg-is-open\n"))
	r := NewRunner(WithNamespace("dlg"), WithSize(40, 12), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	tr, err := r.Run(cmds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if tr.Failed() {
		t.Errorf("failures: %+v", tr.Failures())
	}
	if !r.Page().Locked() {
		t.Error("page should be locked under the dlg namespace")
	}
}
