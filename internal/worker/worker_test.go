package worker_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/job"
	"github.com/queuectl/queuectl/internal/store"
	"github.com/queuectl/queuectl/internal/worker"

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

func TestWorkerCompletesJob(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id, err := s.Enqueue(ctx, "echo test", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}

	w := worker.New("worker-1", s, executor.New(), zap.NewNop(), worker.Options{
		MinPollInterval: 10 * time.Millisecond,
		MaxPollInterval: 50 * time.Millisecond,
	})
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(time.Second)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		jb, err := s.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Completed {
			if jb.Stdout == "" {
				t.Fatal("expected captured stdout")
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not complete in time")
}

func TestWorkerPrefersHigherPriority(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lowID, err := s.Enqueue(ctx, "sleep 1 && echo low", job.PriorityLow, nil)
	if err != nil {
		t.Fatal(err)
	}
	highID, err := s.Enqueue(ctx, "sleep 1 && echo high", job.PriorityHigh, nil)
	if err != nil {
		t.Fatal(err)
	}

	w := worker.New("worker-1", s, executor.New(), zap.NewNop(), worker.Options{
		MinPollInterval: 10 * time.Millisecond,
		MaxPollInterval: 50 * time.Millisecond,
	})
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(time.Second)

	deadline := time.Now().Add(10 * time.Second)
	var highDone, lowDone time.Time
	for time.Now().Before(deadline) {
		if highDone.IsZero() {
			jb, _ := s.Get(ctx, highID)
			if jb != nil && jb.State == job.Completed {
				highDone = time.Now()
			}
		}
		if lowDone.IsZero() {
			jb, _ := s.Get(ctx, lowID)
			if jb != nil && jb.State == job.Completed {
				lowDone = time.Now()
			}
		}
		if !highDone.IsZero() && !lowDone.IsZero() {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if highDone.IsZero() || lowDone.IsZero() {
		t.Fatal("expected both jobs to complete")
	}
	if !highDone.Before(lowDone) {
		t.Fatalf("expected high priority job to finish first: high=%s low=%s", highDone, lowDone)
	}
}

func TestWorkerFinishesInFlightJobAfterShutdownSignal(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	id, err := s.Enqueue(ctx, "sleep 1 && echo survived", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}

	w := worker.New("worker-1", s, executor.New(), zap.NewNop(), worker.Options{
		MinPollInterval: 10 * time.Millisecond,
		MaxPollInterval: 50 * time.Millisecond,
	})
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("job was not claimed in time")
		}
		jb, err := s.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Processing {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Simulate the shutdown signal main.go forwards into ctx, then ask
	// the worker to stop cooperatively exactly as internal-worker-run
	// does: the job claimed above must still run to completion and have
	// its outcome written back, not be abandoned mid-flight.
	cancel()
	if err := w.Stop(5 * time.Second); err != nil {
		t.Fatalf("worker did not stop cleanly: %v", err)
	}

	jb, err := s.Get(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Completed {
		t.Fatalf("expected in-flight job to complete despite shutdown signal, got state %v", jb.State)
	}
	if jb.Stdout == "" {
		t.Fatal("expected captured stdout from the in-flight job")
	}
}

func TestWorkerRetriesOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.ConfigSet(ctx, store.ConfigMaxRetries, "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.ConfigSet(ctx, store.ConfigBackoffBase, "1"); err != nil {
		t.Fatal(err)
	}

	id, err := s.Enqueue(ctx, "exit 1", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}

	w := worker.New("worker-1", s, executor.New(), zap.NewNop(), worker.Options{
		MinPollInterval: 10 * time.Millisecond,
		MaxPollInterval: 50 * time.Millisecond,
	})
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop(time.Second)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		jb, err := s.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Dead {
			if jb.Attempts != 2 {
				t.Fatalf("expected 2 attempts before dead-lettering, got %d", jb.Attempts)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job did not reach Dead in time")
}
