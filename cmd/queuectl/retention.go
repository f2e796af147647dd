package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/job"
)

func newRetentionCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "administrative retention management for terminal jobs",
	}
	cmd.AddCommand(newRetentionPurgeCmd(ctx))
	return cmd
}

func newRetentionPurgeCmd(ctx context.Context) *cobra.Command {
	var stateFlag string
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "permanently delete completed/dead jobs, optionally filtered by age",
		Long: `purge permanently deletes terminal (completed or dead) jobs. It never
touches pending, processing or failed rows.

--older-than restricts deletion to jobs last updated at least that long
ago. If omitted, the durable retention-age-seconds configuration value
(see "config show") is used as the default cutoff; if that is also unset
(0, disabled), every matching terminal job is deleted with no age filter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := job.Unknown
			if stateFlag != "" {
				s, err := job.ParseStatus(stateFlag)
				if err != nil {
					return fmt.Errorf("--state: %w", err)
				}
				if s != job.Completed && s != job.Dead {
					return fmt.Errorf("--state must be completed or dead")
				}
				status = s
			}

			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			var before *time.Time
			if olderThan > 0 {
				cutoff := time.Now().Add(-olderThan)
				before = &cutoff
			} else {
				before, err = st.RetentionCutoff(ctx)
				if err != nil {
					return err
				}
			}

			count, err := st.Purge(ctx, status, before)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d job(s)\n", count)
			return nil
		},
	}
	cmd.Flags().StringVar(&stateFlag, "state", "", "restrict to completed or dead (default: both)")
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only purge jobs last updated at least this long ago (default: retention-age-seconds config value)")
	return cmd
}
