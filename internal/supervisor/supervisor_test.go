package supervisor_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/store"
	"github.com/queuectl/queuectl/internal/supervisor"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	ctx := context.Background()
	if err := store.InitDB(ctx, db); err != nil {
		t.Fatal(err)
	}
	return store.New(db)
}

// sleepyWorkerArgs runs a long-lived shell process standing in for a real
// worker subprocess, so the test exercises spawn/registry/signal/reap
// without depending on the queuectl binary.
func sleepyWorkerArgs(id string) []string {
	return []string{"-c", "sleep 30"}
}

func TestSupervisorStartStatusStop(t *testing.T) {
	s := newTestStore(t)
	sv := supervisor.New(s, zap.NewNop(), "/bin/sh", sleepyWorkerArgs)
	sv.SetGraceTimeout(500 * time.Millisecond)
	ctx := context.Background()

	if err := sv.Start(ctx, 2); err != nil {
		t.Fatal(err)
	}

	status, err := sv.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(status) != 2 {
		t.Fatalf("expected 2 registered workers, got %d", len(status))
	}
	for _, st := range status {
		if !st.Alive {
			t.Fatalf("expected worker %s to be alive", st.WorkerID)
		}
	}

	if err := sv.Start(ctx, 1); !errors.Is(err, supervisor.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	if err := sv.Stop(ctx); err != nil {
		t.Fatal(err)
	}

	status, err = sv.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(status) != 0 {
		t.Fatalf("expected empty registry after stop, got %d entries", len(status))
	}

	if err := sv.Stop(ctx); !errors.Is(err, supervisor.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestSupervisorRestart(t *testing.T) {
	s := newTestStore(t)
	sv := supervisor.New(s, zap.NewNop(), "/bin/sh", sleepyWorkerArgs)
	sv.SetGraceTimeout(500 * time.Millisecond)
	ctx := context.Background()

	if err := sv.Start(ctx, 1); err != nil {
		t.Fatal(err)
	}
	before, err := sv.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := sv.Restart(ctx, 2); err != nil {
		t.Fatal(err)
	}
	after, err := sv.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 workers after restart, got %d", len(after))
	}
	if after[0].WorkerID == before[0].WorkerID {
		t.Fatal("expected restart to spawn fresh worker identities")
	}
}
