package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/output"
)

func newMetricsCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "totals, per-state counts, success rate and recent throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			m, err := st.Metrics(ctx)
			if err != nil {
				return err
			}
			output.WriteMetrics(cmd.OutOrStdout(), m)
			return nil
		},
	}
}
