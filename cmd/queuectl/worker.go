package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/output"
	"github.com/queuectl/queuectl/internal/supervisor"
)

const flagCount = "count"

// workerArgsFor builds the argv used to re-exec this same binary in worker
// mode for the given worker id, propagating the --db/--worker-log flags
// the supervisor itself was invoked with so every spawned worker shares
// them.
func workerArgsFor(id string) []string {
	return []string{
		"internal-worker-run",
		"--worker-id", id,
		"--" + flagDB, viper.GetString(flagDB),
		"--" + flagWorkerLog, viper.GetString(flagWorkerLog),
	}
}

func newSupervisor(ctx context.Context) (*supervisor.Supervisor, func() error, error) {
	st, closeDB, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	log, err := newWorkerLogger()
	if err != nil {
		_ = closeDB()
		return nil, nil, err
	}
	self, err := supervisor.SelfExecutable()
	if err != nil {
		_ = closeDB()
		return nil, nil, err
	}
	return supervisor.New(st, log, self, workerArgsFor), closeDB, nil
}

func newWorkerCmd(ctx context.Context) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "manage the worker process pool",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "spawn worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sv, closeDB, err := newSupervisor(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			return sv.Start(ctx, count)
		},
	}
	start.Flags().IntVar(&count, flagCount, 1, "number of worker processes to spawn")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "gracefully stop all worker processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sv, closeDB, err := newSupervisor(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			return sv.Stop(ctx)
		},
	}

	restart := &cobra.Command{
		Use:   "restart",
		Short: "stop then start the worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			sv, closeDB, err := newSupervisor(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			return sv.Restart(ctx, count)
		},
	}
	restart.Flags().IntVar(&count, flagCount, 1, "number of worker processes after restart")

	status := &cobra.Command{
		Use:   "status",
		Short: "list worker processes and their liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			sv, closeDB, err := newSupervisor(ctx)
			if err != nil {
				return err
			}
			defer closeDB()
			statuses, err := sv.Status(ctx)
			if err != nil {
				return err
			}
			output.WriteWorkerStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	}

	cmd.AddCommand(start, stop, restart, status)
	return cmd
}

// newInternalWorkerRunCmd is the hidden re-exec target the supervisor
// spawns one OS process per worker against; it is not part of the public
// command surface (§6).
func newInternalWorkerRunCmd(ctx context.Context) *cobra.Command {
	var workerID string

	cmd := &cobra.Command{
		Use:    "internal-worker-run",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workerID == "" {
				return fmt.Errorf("--worker-id is required")
			}
			return runWorkerProcess(ctx, workerID)
		},
	}
	cmd.Flags().StringVar(&workerID, "worker-id", "", "stable identity of this worker process")
	return cmd
}

func runWorkerProcess(ctx context.Context, workerID string) error {
	log, err := newWorkerLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, closeDB, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	w := workerFor(workerID, st, log)
	if err := w.Start(ctx); err != nil {
		return err
	}
	log.Info("worker started", zap.String("worker_id", workerID), zap.Int("pid", os.Getpid()))

	<-ctx.Done()
	log.Info("worker shutting down", zap.String("worker_id", workerID))
	if err := w.Stop(defaultStopTimeout); err != nil {
		log.Warn("worker did not stop cleanly", zap.String("worker_id", workerID), zap.Error(err))
	}
	return nil
}
