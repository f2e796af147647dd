package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/internal/job"
)

// Outcome describes the result of a Fail call.
type Outcome uint8

const (
	// OutcomeRetryScheduled means the job was returned to Pending with a
	// future RunAt.
	OutcomeRetryScheduled Outcome = iota
	// OutcomeDead means the job was moved to the dead letter queue.
	OutcomeDead
)

// Fail records a failed execution attempt and applies the retry/DLQ
// policy.
//
// Fail requires the job to currently be Processing (ErrNotProcessing
// otherwise). It increments Attempts and, reading max-retries and
// backoff-base live from the Configuration map within the same
// transaction (per the "OR read live" option of §4.1):
//
//   - if the new Attempts > max-retries, the job moves to Dead
//     (OutcomeDead);
//   - otherwise the job returns to Pending with
//     RunAt = now + backoff-base^attempts seconds (OutcomeRetryScheduled).
//
// In both cases WorkerID and StartedAt are cleared and the captured
// exit code, stdout, stderr and error message are recorded.
func (s *Store) Fail(ctx context.Context, id uuid.UUID, exitCode int, stdout, stderr, errMsg string) (Outcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	outcome, err := s.failTx(ctx, tx, id, exitCode, stdout, stderr, errMsg)
	if err != nil {
		return 0, errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return outcome, nil
}

func (s *Store) failTx(ctx context.Context, tx bun.IDB, id uuid.UUID, exitCode int, stdout, stderr, errMsg string) (Outcome, error) {
	now := time.Now()

	maxRetries, err := configGetInt64(ctx, tx, ConfigMaxRetries, 3)
	if err != nil {
		return 0, err
	}
	backoffBase, err := configGetInt64(ctx, tx, ConfigBackoffBase, 2)
	if err != nil {
		return 0, err
	}

	var updated []*jobModel
	err = tx.NewUpdate().
		Model((*jobModel)(nil)).
		Set("attempts = attempts + 1").
		Set("max_retries_at_last_attempt = ?", maxRetries).
		Set("exit_code = ?", exitCode).
		Set("stdout = ?", stdout).
		Set("stderr = ?", stderr).
		Set("error = ?", errMsg).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Returning("*").
		Scan(ctx, &updated)
	if err != nil {
		return 0, err
	}
	if len(updated) == 0 {
		return 0, ErrNotProcessing
	}
	attempts := updated[0].Attempts

	if int64(attempts) > maxRetries {
		_, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Dead).
			Set("finished_at = ?", now).
			Set("worker_id = NULL").
			Set("started_at = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return 0, err
		}
		return OutcomeDead, nil
	}

	nextRun := now.Add(backoffDelay(backoffBase, attempts))
	_, err = tx.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("run_at = ?", nextRun).
		Set("worker_id = NULL").
		Set("started_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return OutcomeRetryScheduled, nil
}
