package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"satchel/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var notePath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent attachment ingest history",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []history.Entry
			if strings.TrimSpace(notePath) != "" {
				entries, err = store.ForNote(cmd.Context(), notePath)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history entries")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					path.Base(e.NotePath),
					path.Base(e.OriginalPath),
					finalColumn(e),
					e.Category,
					string(e.Outcome),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Note", "Original", "Stored As", "Category", "Outcome"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&notePath, "note", "", "Show history for one note (vault-relative path)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all ingest history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entr%s\n",
				removed, pluralY(removed))
			return nil
		},
	}
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func finalColumn(e history.Entry) string {
	if e.FinalPath == "" {
		return "-"
	}
	return path.Base(e.FinalPath)
}
