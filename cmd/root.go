package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/oagunth/oagunth-cli/internal/model"
)

var (
	configPath  string
	backendName string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "oag",
	Short: "oag – weekly time-sheet client",
	Long: `oag reads the current month from the time-sheet server, lets you log
fractions of days against activities and saves or submits whole weeks.
Configuration lives in ~/.oagunth/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for backend and payload failures, 1 for everything else.
func exitCode(err error) int {
	if model.IsNetwork(err) || model.IsParsing(err) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.oagunth/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Backend: http or fixture (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(loginCmd)
}
