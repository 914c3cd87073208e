package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	saveWeek    int
	saveYear    int
	saveSets    []string
	saveRemoves []string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Edit a week and save it",
	Long: `save applies the given edits to one week of the current month and saves
the whole week. Without edits the week is saved as it is.

  oag save --week 21 --set 2020-05-18=Development:0.5 --set 2020-05-18=Meetings:0.5
  oag save --week 21 --remove 2020-05-20=Meetings`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

func init() {
	saveCmd.Flags().IntVar(&saveWeek, "week", 0, "Week number (default: current week)")
	saveCmd.Flags().IntVar(&saveYear, "year", 0, "Week year, when the month spans two")
	saveCmd.Flags().StringArrayVar(&saveSets, "set", nil, "DATE=ACTIVITY:FRACTION, repeatable")
	saveCmd.Flags().StringArrayVar(&saveRemoves, "remove", nil, "DATE=ACTIVITY, repeatable")
}

func runSave(cmd *cobra.Command, args []string) error {
	edits, err := parseEdits(saveSets, saveRemoves)
	if err != nil {
		return err
	}

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

	w, err := selectWeek(m, saveYear, saveWeek)
	if err != nil {
		return err
	}
	if err := applyEdits(w, m.Catalog(), edits); err != nil {
		return err
	}

	if err := w.Save(cmd.Context()); err != nil {
		a.log.Warn("save failed", "week", w.Number(), "error", err)
		return err
	}
	a.log.Info("week saved", "week", w.Number(), "total", w.Total().String())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %s.\n\n", w.Label())
	printWeek(out, w, w == m.Current())
	return nil
}

func parseEdits(sets, removes []string) ([]edit, error) {
	var edits []edit
	for _, s := range sets {
		e, err := parseSet(s)
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	for _, s := range removes {
		e, err := parseRemove(s)
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	return edits, nil
}
