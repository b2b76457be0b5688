package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/marcus/modalkit/internal/journal"
	"github.com/marcus/modalkit/pkg/monitor"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open the interactive panel host",
	Long: `Open the configured page and panels in the terminal.

Panel trigger keys open panels, / opens the panel finder, ? lists keys,
esc closes the active panel and y copies the event trace. When a journal
is configured every lifecycle event is recorded to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		noJournal, _ := cmd.Flags().GetBool("no-journal")

		// the terminal belongs to the program; only log to a file
		logger := slog.Default()
		if flagLogFile == "" {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		theme := monitor.DetectTheme(os.Stdout)
		theme.Apply()
		m := monitor.NewModel(cfg, monitor.WithLogger(logger), monitor.WithTheme(theme))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		g, ctx := errgroup.WithContext(ctx)

		if path := cfg.JournalPath(getBaseDir()); path != "" && !noJournal {
			j, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer j.Close()
			sid, err := j.StartSession(ctx, cfg.Namespace, "demo")
			if err != nil {
				return err
			}
			rec := journal.NewRecorder(j, sid, logger)
			rec.Attach(m.Coord)
			g.Go(func() error {
				err := rec.Run(ctx)
				logger.Info("journal closed", "session", sid, "written", rec.Written(), "dropped", rec.Dropped())
				return err
			})
		}

		p := tea.NewProgram(m,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		g.Go(func() error {
			defer cancel()
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("run demo: %w", err)
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	demoCmd.Flags().Bool("no-journal", false, "do not record events even when a journal is configured")
	rootCmd.AddCommand(demoCmd)
}
