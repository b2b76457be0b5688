package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/modalkit/internal/config"
	"github.com/marcus/modalkit/internal/output"
	"github.com/marcus/modalkit/internal/termpage"
	"github.com/marcus/modalkit/pkg/modal"
)

var panelsCmd = &cobra.Command{
	Use:   "panels [query]",
	Short: "List configured panels",
	Long: `List configured panels with their resolved options and wrapper classes.
A query fuzzy-matches panel ids, best match first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
		rows := panelRows(cfg, query)
		if len(rows) == 0 {
			if query != "" {
				p.Warning("no panels matching %q", query)
			} else {
				p.Warning("no panels configured")
			}
			return nil
		}
		p.Table([]string{"ID", "KIND", "TRIGGERS", "OPTIONS", "CLASSES", "SOURCE"}, rows)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and panel files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
		files := 0
		for _, pc := range cfg.Panels {
			if pc.Source != "" {
				files++
			}
		}
		p.Success("config ok: %d panels (%d from panel files), namespace %q", len(cfg.Panels), files, cfg.Namespace)
		if path := cfg.JournalPath(getBaseDir()); path != "" {
			p.Dim("journal: %s", path)
		}
		return nil
	},
}

// panelRows binds every configured panel to a scratch coordinator so the
// listing shows resolved options and classes exactly as the host sees them
func panelRows(cfg *config.Config, query string) [][]string {
	c := modal.NewCoordinator(termpage.New(termpage.Config{}), modal.NewQueue(),
		modal.WithLogger(slog.Default()), modal.WithNamespace(cfg.Namespace))
	for _, pc := range cfg.Panels {
		c.Bind(pc.ID, pc, modal.Overrides{})
	}

	var rows [][]string
	for _, p := range c.Find(query) {
		pc, _ := cfg.Panel(p.ID())
		source := pc.Source
		if source == "" {
			source = "inline"
		}
		rows = append(rows, []string{
			p.ID(),
			pc.Kind,
			strings.Join(pc.Triggers, ","),
			describeOptions(p.Options()),
			strings.Join(p.Wrapper().Classes(), " "),
			source,
		})
	}
	return rows
}

func describeOptions(o modal.Options) string {
	parts := []string{
		fmt.Sprintf("overlay=%t", o.Overlay),
		fmt.Sprintf("escape=%t", o.CloseOnEscape),
		fmt.Sprintf("backdrop=%t", o.CloseOnOverlay),
	}
	if o.Position != modal.PositionNone {
		parts = append(parts, "position="+string(o.Position))
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(panelsCmd)
	rootCmd.AddCommand(checkCmd)
}
