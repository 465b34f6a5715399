package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"satchel/internal/services"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <note> <file>...",
		Short: "Attach files to a note",
		Long: "Copies the given files into the vault, names them after the note, " +
			"and appends embed links to the note body.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notePath := args[0]
			files := make([]string, 0, len(args)-1)
			for _, f := range args[1:] {
				abs, err := filepath.Abs(f)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", f, err)
				}
				files = append(files, abs)
			}

			pipeline, store, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := pipeline.Ingest(cmd.Context(), notePath, files); err != nil {
				if services.Rejected(err) {
					return fmt.Errorf("refused: %w", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %d file(s) to %s\n", len(files), notePath)
			return nil
		},
	}
}
