package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/queuectl/queuectl/internal/job"
)

// Complete transitions a Processing job to Completed, recording a
// successful (exit code 0) execution.
//
// Complete requires the job to currently be in Processing state; if the
// update affects no rows, ErrNotProcessing is returned (the job was
// already completed, or requeued by orphan recovery in another process —
// a race that is never surfaced as a user-visible error).
func (s *Store) Complete(ctx context.Context, id uuid.UUID, stdout, stderr string) error {
	now := time.Now()
	zero := 0
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Completed).
		Set("finished_at = ?", now).
		Set("exit_code = ?", zero).
		Set("stdout = ?", stdout).
		Set("stderr = ?", stderr).
		Set("error = ?", "").
		Set("worker_id = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return ErrNotProcessing
	}
	return nil
}
