package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/internal/job"
)

// Store is the sole owner of job durability, state transitions, the
// Configuration map, and the worker registry. All mutations run inside
// bun-issued statements against a single *bun.DB; the claim protocol is the
// only operation whose correctness under contention matters (see Claim).
type Store struct {
	db *bun.DB
}

// New wraps an already-connected, schema-initialized *bun.DB.
//
// Callers must run InitDB before constructing a Store, and should call
// RecoverOrphans once immediately after, to reclaim rows left Processing by
// a prior crash.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// RecoverOrphans resets every row left in Processing state back to Pending,
// clearing WorkerID and StartedAt while leaving Attempts unchanged. It must be called once when the Store is
// opened (§4.1 Recovery on start-up).
//
// The returned count is the number of rows recovered.
func (s *Store) RecoverOrphans(ctx context.Context) (int64, error) {
	now := time.Now()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("worker_id = NULL").
		Set("started_at = NULL").
		Set("updated_at = ?", now).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
