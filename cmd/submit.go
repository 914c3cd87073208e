package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oagunth/oagunth-cli/internal/tracking"
)

var (
	submitWeek int
	submitYear int
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a week; submitted weeks are read-only",
	Args:  cobra.NoArgs,
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().IntVar(&submitWeek, "week", 0, "Week number (default: current week)")
	submitCmd.Flags().IntVar(&submitYear, "year", 0, "Week year, when the month spans two")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	m, err := a.loadMonth(cmd.Context())
	if err != nil {
		return err
	}
	defer m.Close()

	w, err := selectWeek(m, submitYear, submitWeek)
	if err != nil {
		return err
	}
	if w.Action() == tracking.NoActionToTake {
		a.log.Warn("submitting an incomplete week", "week", w.Number(), "total", w.Total().String())
	}

	if err := w.Submit(cmd.Context()); err != nil {
		a.log.Warn("submit failed", "week", w.Number(), "error", err)
		return err
	}
	a.log.Info("week submitted", "week", w.Number())

	fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s (%s).\n", w.Label(), w.Total())
	return nil
}
