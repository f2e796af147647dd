package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/queuectl/queuectl/internal/job"
)

// Enqueue validates and inserts a new job in the Pending state.
//
// priority must be one of job.PriorityHigh/Normal/Low. command must be
// non-empty. If runAt is nil, the job becomes eligible immediately (RunAt =
// now).
func (s *Store) Enqueue(ctx context.Context, command string, priority job.Priority, runAt *time.Time) (uuid.UUID, error) {
	if command == "" {
		return uuid.Nil, ErrInvalidCommand
	}
	if !job.ValidPriority(priority) {
		return uuid.Nil, ErrInvalidPriority
	}
	now := time.Now()
	eligible := now
	if runAt != nil {
		eligible = *runAt
	}
	model := &jobModel{
		Id:        uuid.New(),
		Command:   command,
		State:     job.Pending,
		Priority:  priority,
		Attempts:  0,
		RunAt:     eligible,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return uuid.Nil, err
	}
	return model.Id, nil
}
