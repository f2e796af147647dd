package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/queuectl/queuectl/internal/job"
)

// DLQList returns every job currently in the Dead state.
func (s *Store) DLQList(ctx context.Context) ([]*job.Job, error) {
	return s.List(ctx, job.Dead)
}

// DLQRetry re-enters a Dead job into Pending, resetting Attempts to 0,
// RunAt to now, and clearing the error fields. It requires the job to
// currently be Dead; ErrNotDead is returned otherwise.
func (s *Store) DLQRetry(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("run_at = ?", now).
		Set("started_at = NULL").
		Set("finished_at = NULL").
		Set("worker_id = NULL").
		Set("exit_code = NULL").
		Set("error = ?", "").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Dead).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return ErrNotDead
	}
	return nil
}
