package store

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/internal/job"
)

// Claim atomically selects the single highest-priority eligible job and
// transitions it to Processing, binding it to workerID.
//
// Eligibility: state = Pending AND run_at <= now. Ordering key:
// (priority ASC, run_at ASC, created_at ASC) — ties broken by earliest
// scheduled time, then earliest insertion.
//
// Claim is implemented as a single UPDATE ... WHERE id IN (subquery)
// RETURNING * statement, the same atomicity technique as the teacher's
// Puller.Pull (sql/puller.go): the candidate row is re-validated against
// its Pending state inside the mutation itself, so a losing concurrent
// Claim simply finds no row affected and returns (nil, nil) — no two
// workers ever observe the same (id, attempts) pair as their claim.
//
// Claim returns (nil, nil) if nothing is eligible.
func (s *Store) Claim(ctx context.Context, workerID string) (*job.Job, error) {
	now := time.Now()
	subQuery := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("run_at <= ?", now).
		Order("priority ASC", "run_at ASC", "created_at ASC").
		Limit(1)

	var updated []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("worker_id = ?", workerID).
		Set("started_at = ?", now).
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &updated)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, nil
	}
	return updated[0].toJob(), nil
}
