package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/marcus/modalkit/internal/journal"
	"github.com/marcus/modalkit/internal/output"
	"github.com/marcus/modalkit/internal/script"
)

const openScript = `bind about
open about
flush
expect active about
expect active none
`

func runScript(t *testing.T, src string) *script.Trace {
	t.Helper()
	cmds, err := script.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	trace, err := script.NewRunner().Run(cmds)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return trace
}

func plainOutput(t *testing.T) (*output.Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	var out, errOut bytes.Buffer
	return &output.Printer{Out: &out, Err: &errOut, Width: 120}, &out, &errOut
}

func TestPrintTrace(t *testing.T) {
	p, out, errOut := plainOutput(t)
	printTrace(p, runScript(t, openScript), false)

	got := out.String()
	for _, want := range []string{"LINE", "about:initialize", "about:beforeOpen", "about:afterOpen", "FAIL active: got about, want none"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(errOut.String(), "5 steps") || !strings.Contains(errOut.String(), "1 failed") {
		t.Errorf("summary = %q", errOut.String())
	}
}

func TestPrintTrace_Quiet(t *testing.T) {
	p, out, _ := plainOutput(t)
	printTrace(p, runScript(t, openScript), true)

	got := out.String()
	if strings.Contains(got, "about:beforeOpen") {
		t.Errorf("quiet output lists passing steps:\n%s", got)
	}
	if !strings.Contains(got, "expect active none") {
		t.Errorf("quiet output missing failed step:\n%s", got)
	}
}

func TestPrintTrace_AllPassed(t *testing.T) {
	p, out, errOut := plainOutput(t)
	printTrace(p, runScript(t, "bind about\nopen about\nflush\nexpect active about\n"), true)

	if errOut.Len() != 0 {
		t.Errorf("unexpected error output %q", errOut.String())
	}
	if !strings.Contains(out.String(), "✓ 4 steps") {
		t.Errorf("summary = %q", out.String())
	}
}

func TestStepResult(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	tests := []struct {
		name string
		step script.Step
		want string
	}{
		{name: "failure wins", step: script.Step{Failure: "active: got a, want b", Refusal: "busy"}, want: "FAIL active: got a, want b"},
		{name: "refusal", step: script.Step{Refusal: "busy"}, want: "refused: busy"},
		{name: "events", step: script.Step{Events: []string{"a:beforeClose", "a:afterClose"}}, want: "a:beforeClose a:afterClose"},
		{name: "quiet step", step: script.Step{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepResult(tt.step); got != tt.want {
				t.Errorf("stepResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTraceCommandRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".modalkit", "config.yaml"), "journal: events.db\n")
	scriptPath := filepath.Join(dir, "open.script")
	writeFile(t, scriptPath, "bind about\nopen about\nflush\n")
	withFlags(t, dir, "")
	t.Cleanup(func() {
		_ = traceCmd.Flags().Set("record", "false")
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--dir", dir, "trace", "--record", scriptPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("trace failed: %v\n%s", err, errOut.String())
	}
	if !strings.Contains(out.String(), "recorded 3 events") {
		t.Errorf("output = %q", out.String())
	}

	j, err := journal.Open(filepath.Join(dir, ".modalkit", "events.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer j.Close()
	sessions, err := j.Sessions(context.Background(), 0)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Source != scriptPath || sessions[0].Events != 3 {
		t.Errorf("sessions = %+v", sessions)
	}
}
