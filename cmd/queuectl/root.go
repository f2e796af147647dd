package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"github.com/queuectl/queuectl/internal/store"
)

const (
	flagDB        = "db"
	flagWorkerLog = "worker-log"
	flagVerbose   = "verbose"
)

func newRootCmd(ctx context.Context, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "single-node background job queue",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(flagDB, "queue.db", "path to the queue's database file")
	root.PersistentFlags().String(flagWorkerLog, "worker.log", "path to the worker operational log")
	root.PersistentFlags().BoolP(flagVerbose, "v", false, "enable debug-level worker logging")

	_ = viper.BindPFlag(flagDB, root.PersistentFlags().Lookup(flagDB))
	_ = viper.BindPFlag(flagWorkerLog, root.PersistentFlags().Lookup(flagWorkerLog))
	_ = viper.BindPFlag(flagVerbose, root.PersistentFlags().Lookup(flagVerbose))
	viper.SetEnvPrefix("queuectl")
	viper.AutomaticEnv()

	root.AddCommand(newEnqueueCmd(ctx))
	root.AddCommand(newListCmd(ctx))
	root.AddCommand(newJobCmd(ctx))
	root.AddCommand(newWorkerCmd(ctx))
	root.AddCommand(newDLQCmd(ctx))
	root.AddCommand(newConfigCmd(ctx))
	root.AddCommand(newMetricsCmd(ctx))
	root.AddCommand(newStatusCmd(ctx))
	root.AddCommand(newRetentionCmd(ctx))
	root.AddCommand(newInternalWorkerRunCmd(ctx))

	return root
}

// Execute builds and runs the root command.
func Execute(ctx context.Context, version string) error {
	return newRootCmd(ctx, version).Execute()
}

// openStore opens the database named by --db, initializes its schema if
// necessary, recovers any rows orphaned by a prior crash, and returns a
// ready-to-use Store. Every subcommand that touches persisted state goes
// through this so RecoverOrphans always runs once per process, per §4.1.
func openStore(ctx context.Context) (*store.Store, func() error, error) {
	path := viper.GetString(flagDB)
	sqlDB, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := store.InitDB(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("initialize schema: %w", err)
	}
	st := store.New(db)
	if _, err := st.RecoverOrphans(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("recover orphaned jobs: %w", err)
	}
	return st, sqlDB.Close, nil
}

// newWorkerLogger builds the zap logger used by worker and supervisor
// processes, writing to --worker-log rather than stdout/stderr so it never
// interleaves with a job's own captured output (§6: "worker operational
// log... not job stdout/stderr").
func newWorkerLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{viper.GetString(flagWorkerLog)}
	cfg.ErrorOutputPaths = []string{viper.GetString(flagWorkerLog)}
	if viper.GetBool(flagVerbose) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
