package store

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/internal/job"
)

// Purge permanently deletes terminal jobs, for administrative retention
// management. It never touches Pending, Processing or Failed rows.
//
// If status is job.Unknown, both Completed and Dead jobs are eligible;
// any other non-terminal status is rejected with ErrNotTerminal. If
// before is non-nil, only jobs whose UpdatedAt is <= *before are deleted;
// a nil before deletes every job matching status with no age filter.
//
// Purge does not coordinate with running workers beyond the status
// filter itself: a Processing job is, by construction, never a deletion
// candidate.
func (s *Store) Purge(ctx context.Context, status job.Status, before *time.Time) (int64, error) {
	if status != job.Unknown && status != job.Completed && status != job.Dead {
		return 0, ErrNotTerminal
	}
	query := s.db.NewDelete().Model((*jobModel)(nil))
	if status != job.Unknown {
		query = query.Where("state = ?", status)
	} else {
		query = query.Where("state IN (?, ?)", job.Completed, job.Dead)
	}
	if before != nil {
		query = query.Where("updated_at <= ?", before)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}

// RetentionCutoff reads the durable retention-age-seconds config value and
// returns the age-based cutoff it implies (now minus that many seconds),
// or nil if retention age is disabled (0, the default).
func (s *Store) RetentionCutoff(ctx context.Context) (*time.Time, error) {
	age, err := configGetInt64(ctx, s.db, ConfigRetentionAge, 0)
	if err != nil {
		return nil, err
	}
	if age <= 0 {
		return nil, nil
	}
	cutoff := time.Now().Add(-time.Duration(age) * time.Second)
	return &cutoff, nil
}
