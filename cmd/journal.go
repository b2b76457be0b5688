package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/modalkit/internal/config"
	"github.com/marcus/modalkit/internal/journal"
	"github.com/marcus/modalkit/internal/output"
	"github.com/marcus/modalkit/pkg/modal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded lifecycle events",
}

var journalSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := j.Sessions(cmd.Context(), limit)
		if err != nil {
			return err
		}
		p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if len(sessions) == 0 {
			p.Warning("no sessions recorded")
			return nil
		}
		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{
				s.ID,
				s.StartedAt.Local().Format(time.DateTime),
				s.Namespace,
				strconv.Itoa(s.Events),
				s.Source,
			})
		}
		p.Table([]string{"SESSION", "STARTED", "NAMESPACE", "EVENTS", "SOURCE"}, rows)
		return nil
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show [session]",
	Short: "Show recorded events, oldest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := journal.Filter{}
		if len(args) > 0 {
			f.SessionID = args[0]
		}
		f.PanelID, _ = cmd.Flags().GetString("panel")
		f.Limit, _ = cmd.Flags().GetInt("limit")
		types, _ := cmd.Flags().GetStringSlice("type")
		for _, name := range types {
			t, ok := modal.NormalizeEventType(name)
			if !ok {
				return fmt.Errorf("unknown event type %q", name)
			}
			f.Types = append(f.Types, t)
		}

		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		entries, err := j.Recent(cmd.Context(), f)
		if err != nil {
			return err
		}
		p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if len(entries) == 0 {
			p.Warning("no events recorded")
			return nil
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.Timestamp.Local().Format(time.TimeOnly),
				e.SessionID,
				strconv.Itoa(e.Seq),
				e.PanelID,
				string(e.Type),
				e.RelatedID,
				e.Payload,
			})
		}
		p.Table([]string{"TIME", "SESSION", "SEQ", "PANEL", "EVENT", "RELATED", "PAYLOAD"}, rows)
		return nil
	},
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions older than a duration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		n, err := j.Prune(cmd.Context(), time.Now().Add(-age))
		if err != nil {
			return err
		}
		output.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Success("pruned %d events", n)
		return nil
	},
}

func openJournal() (*journal.Journal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.JournalPath(getBaseDir())
	if path == "" {
		return nil, fmt.Errorf("no journal configured: set \"journal\" in %s", config.Dir(getBaseDir()))
	}
	return journal.Open(path)
}

func init() {
	journalSessionsCmd.Flags().Int("limit", 20, "maximum sessions to list (0 = all)")

	journalShowCmd.Flags().String("panel", "", "only events for this panel")
	journalShowCmd.Flags().StringSlice("type", nil, "only these event types")
	journalShowCmd.Flags().Int("limit", 50, "newest events to show (0 = all)")

	journalPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "prune sessions started before this long ago")

	journalCmd.AddCommand(journalSessionsCmd, journalShowCmd, journalPruneCmd)
	rootCmd.AddCommand(journalCmd)
}
