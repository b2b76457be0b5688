package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/modalkit/internal/journal"
	"github.com/marcus/modalkit/internal/output"
	"github.com/marcus/modalkit/internal/script"
)

var traceCmd = &cobra.Command{
	Use:   "trace <script>",
	Short: "Run a panel script and print the events it produced",
	Long: `Run a panel script against a fresh coordinator and terminal page.

Each line of the script is one command (bind, open, close, key, click,
flush, expect, ...). The trace shows the events every command emitted and
any refused transition. Failed expectations make the command exit 1.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		cmds, err := script.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if w, h, ok := output.TerminalSize(cmd.OutOrStdout()); ok {
			if width == 0 {
				width = w
			}
			if height == 0 {
				height = h
			}
		}

		r := script.NewRunner(
			script.WithNamespace(cfg.Namespace),
			script.WithLogger(slog.Default()),
			script.WithSize(width, height),
		)

		record, _ := cmd.Flags().GetBool("record")
		var rec *journal.Recorder
		if record {
			path := cfg.JournalPath(getBaseDir())
			if path == "" {
				return fmt.Errorf("--record needs a journal path in the config")
			}
			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()
			sid, err := j.StartSession(cmd.Context(), cfg.Namespace, args[0])
			if err != nil {
				return err
			}
			rec = journal.NewRecorder(j, sid, slog.Default())
			rec.Attach(r.Coordinator())
		}

		trace, runErr := r.Run(cmds)
		quiet, _ := cmd.Flags().GetBool("quiet")
		p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
		printTrace(p, trace, quiet)

		if rec != nil {
			if err := rec.Flush(cmd.Context()); err != nil {
				return err
			}
			p.Dim("recorded %d events", rec.Written())
		}
		if runErr != nil {
			return runErr
		}
		if n := len(trace.Failures()); n > 0 {
			return fmt.Errorf("%d expectation(s) failed", n)
		}
		return nil
	},
}

func printTrace(p *output.Printer, trace *script.Trace, quiet bool) {
	var rows [][]string
	for _, s := range trace.Steps {
		if quiet && s.Failure == "" {
			continue
		}
		rows = append(rows, []string{strconv.Itoa(s.Command.Line), s.Command.String(), stepResult(s)})
	}
	if len(rows) > 0 {
		p.Table([]string{"LINE", "COMMAND", "RESULT"}, rows)
	}

	failed := len(trace.Failures())
	summary := fmt.Sprintf("%d steps, backdrop created %d removed %d",
		len(trace.Steps), trace.Overlay.Created, trace.Overlay.Destroyed)
	if failed > 0 {
		p.Error("%s, %d failed", summary, failed)
		return
	}
	p.Success("%s", summary)
}

func stepResult(s script.Step) string {
	switch {
	case s.Failure != "":
		return "FAIL " + s.Failure
	case s.Refusal != "":
		return "refused: " + s.Refusal
	case len(s.Events) > 0:
		return output.Highlight(strings.Join(s.Events, " "))
	}
	return ""
}

func init() {
	traceCmd.Flags().Int("width", 0, "page width (default: terminal width or 80)")
	traceCmd.Flags().Int("height", 0, "page height (default: terminal height or 24)")
	traceCmd.Flags().BoolP("quiet", "q", false, "only print failed expectations")
	traceCmd.Flags().Bool("record", false, "record the run's events to the journal")
	rootCmd.AddCommand(traceCmd)
}
