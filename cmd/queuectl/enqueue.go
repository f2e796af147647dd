package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/internal/job"
)

const runAtLayout = "2006-01-02 15:04:05"

type enqueueRequest struct {
	Command  string `json:"command"`
	Priority int    `json:"priority"`
	RunAt    string `json:"run_at"`
}

func newEnqueueCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue <json>",
		Short: "submit a new job",
		Long: `enqueue takes a single JSON object argument with keys:

  command   string, required, the shell command to run
  priority  1 (high), 2 (normal) or 3 (low); defaults to normal
  run_at    "YYYY-MM-DD HH:MM:SS" in local time; defaults to now

On success the new job's id is printed to stdout, alone, with no table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req enqueueRequest
			if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
				return fmt.Errorf("parse job request: %w", err)
			}
			priority := job.PriorityNormal
			if req.Priority != 0 {
				priority = job.Priority(req.Priority)
			}
			if !job.ValidPriority(priority) {
				return fmt.Errorf("priority must be 1, 2 or 3")
			}

			var runAt *time.Time
			if req.RunAt != "" {
				t, err := time.ParseInLocation(runAtLayout, req.RunAt, time.Local)
				if err != nil {
					return fmt.Errorf("parse run_at: %w", err)
				}
				runAt = &t
			}

			st, closeDB, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			id, err := st.Enqueue(ctx, req.Command, priority, runAt)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}
}
