package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/modalkit/internal/config"
	"github.com/marcus/modalkit/internal/output"
)

var (
	version string
	baseDir string

	flagDir      string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
	flagLogJSON  bool

	logCloser io.Closer
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "modalkit",
	Short: "Modal panel lifecycle toolkit",
	Long: `modalkit - one-at-a-time modal panels over a terminal page.

Panels are declared in .modalkit/config.{yaml,json} and .modalkit/panels/.
Run the interactive host with "modalkit demo", replay scripted scenarios
with "modalkit trace", and inspect recorded lifecycle events with
"modalkit journal".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initBaseDir(); err != nil {
			return err
		}
		level := flagLogLevel
		if !cmd.Flags().Changed("log-level") {
			// config errors surface later from the command itself
			if cfg, err := loadConfig(); err == nil {
				level = cfg.LogLevel
			}
		}
		return initLogging(level, cmd.ErrOrStderr())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		closeLog()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDir, "dir", "", "project directory (default: working directory)")
	pf.StringVar(&flagConfig, "config", "", "config file to use instead of .modalkit/config.*")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error (default: config log_level)")
	pf.StringVar(&flagLogFile, "log-file", "", "write logs to this file instead of stderr")
	pf.BoolVar(&flagLogJSON, "log-json", false, "log as JSON")
}

func initBaseDir() error {
	if flagDir != "" {
		baseDir = flagDir
		return nil
	}
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}
	return nil
}

func initLogging(level string, stderr io.Writer) error {
	logger, closer, err := newLogger(logOptions{
		Level: level,
		File:  flagLogFile,
		JSON:  flagLogJSON,
	}, stderr)
	if err != nil {
		return err
	}
	logCloser = closer
	slog.SetDefault(logger)
	return nil
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// loadConfig reads --config when given, else the project config
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load(getBaseDir())
}
