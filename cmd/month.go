package cmd

import (
	"github.com/spf13/cobra"
)

var monthFormat string

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show the current month week by week",
	Long: `month shows every week of the current month with its status, its
total against the number of working days and the action it allows.`,
	Args: cobra.NoArgs,
	RunE: runMonth,
}

func init() {
	monthCmd.Flags().StringVar(&monthFormat, "format", "md", "Output format: md, json, csv")
}

func runMonth(cmd *cobra.Command, args []string) error {
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

	return renderMonth(cmd.OutOrStdout(), m, monthFormat)
}
