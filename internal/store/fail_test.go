package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/queuectl/queuectl/internal/job"
	"github.com/queuectl/queuectl/internal/store"
)

func TestCompleteRequiresProcessing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)

	id, err := s.Enqueue(ctx, "echo hi", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(ctx, id, "hi\n", ""); err != store.ErrNotProcessing {
		t.Fatalf("expected ErrNotProcessing for a Pending job, got %v", err)
	}

	if _, err := s.Claim(ctx, "w"); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(ctx, id, "hi\n", ""); err != nil {
		t.Fatal(err)
	}

	jb, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Completed {
		t.Fatalf("expected Completed, got %v", jb.State)
	}
	if jb.ExitCode == nil || *jb.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %v", jb.ExitCode)
	}
	if jb.WorkerID != "" {
		t.Fatalf("expected worker_id cleared, got %q", jb.WorkerID)
	}
}

func TestFailSchedulesRetryThenDeadLetters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)

	if err := s.ConfigSet(ctx, store.ConfigMaxRetries, "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.ConfigSet(ctx, store.ConfigBackoffBase, "2"); err != nil {
		t.Fatal(err)
	}

	id, err := s.Enqueue(ctx, "exit 1", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}

	before := time.Now()
	if _, err := s.Claim(ctx, "w"); err != nil {
		t.Fatal(err)
	}
	outcome, err := s.Fail(ctx, id, 1, "", "boom", "exit status 1")
	if err != nil {
		t.Fatal(err)
	}
	if outcome != store.OutcomeRetryScheduled {
		t.Fatalf("expected retry scheduled on attempt 1 of 1, got %v", outcome)
	}

	jb, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Pending {
		t.Fatalf("expected Pending after first failure, got %v", jb.State)
	}
	if jb.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", jb.Attempts)
	}
	if !jb.RunAt.After(before.Add(1500 * time.Millisecond)) {
		t.Fatalf("expected run_at delayed by ~2s backoff, got %s (before=%s)", jb.RunAt, before)
	}

	// The retry only becomes claimable once its backoff has elapsed.
	time.Sleep(time.Until(jb.RunAt) + 50*time.Millisecond)
	if _, err := s.Claim(ctx, "w"); err != nil {
		t.Fatal(err)
	}
	outcome, err = s.Fail(ctx, id, 1, "", "boom again", "exit status 1")
	if err != nil {
		t.Fatal(err)
	}
	if outcome != store.OutcomeDead {
		t.Fatalf("expected dead after exceeding max-retries=1, got %v", outcome)
	}

	jb, err = s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Dead {
		t.Fatalf("expected Dead, got %v", jb.State)
	}
	if jb.Attempts != 2 {
		t.Fatalf("expected attempts=2, got %d", jb.Attempts)
	}
	if jb.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}
}

func TestDLQRetryResetsAttempts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)
	if err := s.ConfigSet(ctx, store.ConfigMaxRetries, "0"); err != nil {
		t.Fatal(err)
	}

	id, err := s.Enqueue(ctx, "exit 1", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Claim(ctx, "w"); err != nil {
		t.Fatal(err)
	}
	outcome, err := s.Fail(ctx, id, 1, "", "", "boom")
	if err != nil {
		t.Fatal(err)
	}
	if outcome != store.OutcomeDead {
		t.Fatalf("expected immediate dead-letter with max-retries=0, got %v", outcome)
	}

	if err := s.DLQRetry(ctx, id); err != nil {
		t.Fatal(err)
	}

	jb, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Pending {
		t.Fatalf("expected Pending after DLQ retry, got %v", jb.State)
	}
	if jb.Attempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", jb.Attempts)
	}

	if err := s.DLQRetry(ctx, id); err != store.ErrNotDead {
		t.Fatalf("expected ErrNotDead retrying a non-dead job, got %v", err)
	}
}

func TestRecoverOrphans(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)

	id, err := s.Enqueue(ctx, "sleep 10", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}
	claimed, err := s.Claim(ctx, "crashed-worker")
	if err != nil {
		t.Fatal(err)
	}
	if claimed.Attempts != 0 {
		t.Fatalf("expected attempts unchanged by claim, got %d", claimed.Attempts)
	}

	recovered, err := s.RecoverOrphans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if recovered != 1 {
		t.Fatalf("expected 1 recovered row, got %d", recovered)
	}

	jb, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if jb.State != job.Pending {
		t.Fatalf("expected Pending after recovery, got %v", jb.State)
	}
	if jb.WorkerID != "" {
		t.Fatalf("expected worker_id cleared, got %q", jb.WorkerID)
	}
	if jb.Attempts != 0 {
		t.Fatalf("expected attempts preserved across recovery, got %d", jb.Attempts)
	}
}
