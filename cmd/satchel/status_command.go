package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"satchel/internal/history"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and history status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vault root:    %s\n", cfg.Vault.Root)
			fmt.Fprintf(out, "Handling mode: %s\n", cfg.Mode())

			lockPath := filepath.Join(cfg.Daemon.StateDir, "satcheld.lock")
			fmt.Fprintf(out, "Daemon:        %s\n", daemonState(lockPath))

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.CountByOutcome(cmd.Context())
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}
			if len(counts) == 0 {
				fmt.Fprintln(out, "History:       empty")
				return nil
			}

			outcomes := make([]string, 0, len(counts))
			for outcome := range counts {
				outcomes = append(outcomes, string(outcome))
			}
			sort.Strings(outcomes)

			rows := make([][]string, 0, len(outcomes))
			for _, outcome := range outcomes {
				rows = append(rows, []string{outcome, fmt.Sprintf("%d", counts[history.Outcome(outcome)])})
			}
			fmt.Fprintln(out, renderTable([]string{"Outcome", "Count"}, rows, 1))
			return nil
		},
	}
}

// daemonState probes the daemon lock file without holding it.
func daemonState(lockPath string) string {
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Sprintf("unknown (%v)", err)
	}
	if !ok {
		return "running"
	}
	_ = lock.Unlock()
	return "stopped"
}
