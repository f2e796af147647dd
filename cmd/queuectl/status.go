package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/job"
	"github.com/queuectl/queuectl/internal/output"
	"github.com/queuectl/queuectl/internal/supervisor"
)

func newStatusCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "worker status plus queue depth",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			sv := supervisor.New(st, zap.NewNop(), "", nil)
			statuses, err := sv.Status(ctx)
			if err != nil {
				return err
			}
			output.WriteWorkerStatus(cmd.OutOrStdout(), statuses)

			pending, err := st.List(ctx, job.Pending)
			if err != nil {
				return err
			}
			processing, err := st.List(ctx, job.Processing)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nqueue depth: %d pending, %d processing\n", len(pending), len(processing))
			return nil
		},
	}
}
