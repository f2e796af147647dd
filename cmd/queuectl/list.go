package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/job"
	"github.com/queuectl/queuectl/internal/output"
)

func newListCmd(ctx context.Context) *cobra.Command {
	var stateFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := job.Unknown
			if stateFlag != "" {
				s, err := job.ParseStatus(stateFlag)
				if err != nil {
					return fmt.Errorf("--state: %w", err)
				}
				status = s
			}

			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			jobs, err := st.List(ctx, status)
			if err != nil {
				return err
			}
			output.WriteJobList(cmd.OutOrStdout(), jobs)
			return nil
		},
	}
	cmd.Flags().StringVar(&stateFlag, "state", "", "filter by state (pending, processing, completed, failed, dead)")
	return cmd
}
