package store_test

import (
	"context"
	"testing"

	"github.com/queuectl/queuectl/internal/job"
	"github.com/queuectl/queuectl/internal/store"
)

func TestConfigDefaultsAreSeeded(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)

	all, err := s.ConfigAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		store.ConfigMaxRetries:  "3",
		store.ConfigBackoffBase: "2",
		store.ConfigJobTimeout:  "300",
	}
	for k, v := range want {
		if all[k] != v {
			t.Fatalf("expected default %s=%s, got %s", k, v, all[k])
		}
	}
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)

	if err := s.ConfigSet(ctx, "nonsense", "1"); err != store.ErrUnknownConfigKey {
		t.Fatalf("expected ErrUnknownConfigKey, got %v", err)
	}
}

func TestMetricsCountsByState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := store.New(db)

	if _, err := s.Enqueue(ctx, "echo a", job.PriorityNormal, nil); err != nil {
		t.Fatal(err)
	}
	completedID, err := s.Enqueue(ctx, "echo b", job.PriorityNormal, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Claim(ctx, "w"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Claim(ctx, "w"); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(ctx, completedID, "b\n", ""); err != nil {
		t.Fatal(err)
	}

	metrics, err := s.Metrics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if metrics.Total != 2 {
		t.Fatalf("expected total 2, got %d", metrics.Total)
	}
	if metrics.ByState[job.Completed] != 1 {
		t.Fatalf("expected 1 completed, got %d", metrics.ByState[job.Completed])
	}
	if metrics.SuccessRate != 1.0 {
		t.Fatalf("expected success rate 1.0, got %f", metrics.SuccessRate)
	}
}
