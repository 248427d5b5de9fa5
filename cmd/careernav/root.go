package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/config"
)

var (
	noColor bool
	verbose bool

	// appConfig is loaded once per invocation before any command runs.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "careernav",
	Short: "CareerNavigator-AI from the terminal",
	Long: `careernav is a terminal client for the CareerNavigator-AI career guidance API.

Take the learning-style assessment, follow your course progress, browse job
matches and talk to the AI assistant without leaving the shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg
		setupLogging(cmd.ErrOrStderr(), cfg.Log)
		return nil
	},
}

var loadConfig = config.Load

func setupLogging(w io.Writer, lc config.LogConfig) {
	level := lc.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the careernav version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "careernav version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		loginCmd,
		registerCmd,
		logoutCmd,
		whoamiCmd,
		dashboardCmd,
		assessmentCmd,
		chatCmd,
		coursesCmd,
		jobsCmd,
		leaderboardCmd,
		progressCmd,
		profileCmd,
		navCmd,
		configCmd,
		mcpCmd,
		versionCmd,
	)
}
