package cmd

import (
	"github.com/spf13/cobra"
)

var activitiesFormat string

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the activities time can be logged against",
	Args:  cobra.NoArgs,
	RunE:  runActivities,
}

func init() {
	activitiesCmd.Flags().StringVar(&activitiesFormat, "format", "md", "Output format: md, json, csv")
}

func runActivities(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	activities, err := a.backend.FetchActivities(cmd.Context())
	if err != nil {
		return err
	}
	return printActivities(cmd.OutOrStdout(), activities, activitiesFormat)
}
