package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Create or update the summary page",
		Long: "Rewrites the summary page with embeds of the most recent daily " +
			"notes, creating it when missing. Requires summary.enabled in the " +
			"configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, store, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer store.Close()

			pagePath, _, err := pipeline.UpdateSummaryPage(cmd.Context(), true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", pagePath)
			return nil
		},
	}
}
