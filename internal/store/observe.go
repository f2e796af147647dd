package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/queuectl/queuectl/internal/job"
)

// Get retrieves a job by id. If no job with the given id exists, Get
// returns (nil, nil).
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var model jobModel
	err := s.db.NewSelect().Model(&model).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return model.toJob(), nil
}

// List returns every job matching status. If status is job.Unknown, no
// status filter is applied and jobs in every state are returned.
func (s *Store) List(ctx context.Context, status job.Status) ([]*job.Job, error) {
	var models []*jobModel
	query := s.db.NewSelect().Model(&models)
	if status != job.Unknown {
		query = query.Where("state = ?", status)
	}
	query = query.Order("created_at ASC")
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return jobsToSlice(models), nil
}
