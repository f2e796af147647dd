package store

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/internal/job"
)

// Metrics summarizes the state of the queue for the CLI `metrics` command.
type Metrics struct {
	Total         int64
	ByState       map[job.Status]int64
	SuccessRate   float64 // completed / (completed + dead)
	AverageAttempts float64
	Last24h       int64 // jobs that reached a terminal state in the last 24h
}

// Metrics computes totals, per-state counts, success rate, average
// attempts across terminal jobs, and last-24h terminal throughput.
func (s *Store) Metrics(ctx context.Context) (*Metrics, error) {
	total, err := s.db.NewSelect().Model((*jobModel)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}

	byState := make(map[job.Status]int64)
	for _, st := range []job.Status{job.Pending, job.Processing, job.Completed, job.Dead} {
		count, err := s.db.NewSelect().Model((*jobModel)(nil)).Where("state = ?", st).Count(ctx)
		if err != nil {
			return nil, err
		}
		byState[st] = int64(count)
	}

	completed := byState[job.Completed]
	dead := byState[job.Dead]
	var successRate float64
	if completed+dead > 0 {
		successRate = float64(completed) / float64(completed+dead)
	}

	var avgAttempts float64
	err = s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("COALESCE(AVG(attempts), 0)").
		Where("state IN (?, ?)", job.Completed, job.Dead).
		Scan(ctx, &avgAttempts)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-24 * time.Hour)
	last24h, err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Where("state IN (?, ?)", job.Completed, job.Dead).
		Where("finished_at >= ?", since).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Total:           int64(total),
		ByState:         byState,
		SuccessRate:     successRate,
		AverageAttempts: avgAttempts,
		Last24h:         int64(last24h),
	}, nil
}
