package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/output"
)

func newDLQCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "inspect and recover dead-lettered jobs",
	}
	cmd.AddCommand(newDLQListCmd(ctx))
	cmd.AddCommand(newDLQRetryCmd(ctx))
	return cmd
}

func newDLQListCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list jobs in the dead letter queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			jobs, err := st.DLQList(ctx)
			if err != nil {
				return err
			}
			output.WriteJobList(cmd.OutOrStdout(), jobs)
			return nil
		},
	}
}

func newDLQRetryCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "re-enter a dead job as pending, resetting its attempt count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse job id: %w", err)
			}

			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := st.DLQRetry(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}
}
