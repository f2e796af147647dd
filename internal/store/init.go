package store

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

// Config key names recognized by the durable Configuration map (§3).
const (
	ConfigMaxRetries   = "max-retries"
	ConfigBackoffBase  = "backoff-base"
	ConfigJobTimeout   = "job-timeout"
	ConfigRetentionAge = "retention-age-seconds"
)

var defaultConfig = map[string]string{
	ConfigMaxRetries:  "3",
	ConfigBackoffBase: "2",
	ConfigJobTimeout:  "300",
	// 0 disables a default age filter. A positive value is turned by
	// RetentionCutoff into the cutoff "retention purge" passes to Purge
	// when no --older-than is given; Purge itself never reads it.
	ConfigRetentionAge: "0",
}

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createJobsRunIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_run").
		Column("state", "run_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createJobsUpdatedIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state_updated").
		Column("state", "updated_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createConfigTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*configModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createWorkersTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*workerModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func seedConfig(ctx context.Context, db bun.IDB) error {
	for key, value := range defaultConfig {
		_, err := db.NewInsert().
			Model(&configModel{Key: key, Value: value}).
			On("CONFLICT (key) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func(context.Context, bun.IDB) error{
		createJobsTable,
		createJobsRunIndex,
		createJobsUpdatedIndex,
		createConfigTable,
		createWorkersTable,
		seedConfig,
	}
	for _, step := range steps {
		if err := step(ctx, tx); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitDB initializes the database schema required by the store: the jobs,
// config and workers tables and their indexes, plus the default
// Configuration values. All steps run inside a single transaction.
//
// InitDB is idempotent and may be called multiple times; it never drops or
// mutates existing rows.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics on failure. Intended for
// application bootstrap where schema initialization failure is fatal.
func MustInitDB(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
