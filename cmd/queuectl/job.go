package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/output"
)

func newJobCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "show the full record for a single job, including captured output",
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

			jb, err := st.Get(ctx, id)
			if err != nil {
				return err
			}
			if jb == nil {
				return fmt.Errorf("job %s not found", id)
			}
			output.WriteJobDetail(cmd.OutOrStdout(), jb)
			return nil
		},
	}
}
