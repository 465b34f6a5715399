package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"satchel/internal/dailynote"
)

func newNoteCommand(ctx *commandContext) *cobra.Command {
	noteCmd := &cobra.Command{
		Use:   "note",
		Short: "Resolve and create daily notes",
	}

	noteCmd.AddCommand(newNoteDayCommand(ctx, "today", "Resolve today's daily note", 0))
	noteCmd.AddCommand(newNoteDayCommand(ctx, "yesterday", "Resolve yesterday's daily note", -1))
	noteCmd.AddCommand(newNoteDayCommand(ctx, "tomorrow", "Resolve tomorrow's daily note", 1))

	return noteCmd
}

func newNoteDayCommand(ctx *commandContext, use, short string, dayOffset int) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			at := time.Now().AddDate(0, 0, dayOffset)
			out := cmd.OutOrStdout()

			if !create {
				fmt.Fprintln(out, dailynote.NotePathAt(cfg.DailyNoteConfig(), at))
				return nil
			}

			pipeline, store, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			defer store.Close()

			rel, created, err := pipeline.EnsureDailyNote(cmd.Context(), at)
			if err != nil {
				return fmt.Errorf("create daily note: %w", err)
			}
			if created {
				fmt.Fprintf(out, "Created %s\n", rel)
			} else {
				fmt.Fprintf(out, "Exists %s\n", rel)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "Create the note if it does not exist")
	return cmd
}
