package store

import (
	"context"
	"time"
)

// RegisterWorker persists a new live registry entry. Used by the
// supervisor when spawning a worker process.
func (s *Store) RegisterWorker(ctx context.Context, workerID string, pid int) error {
	_, err := s.db.NewInsert().
		Model(&workerModel{WorkerID: workerID, OSPid: pid, StartedAt: time.Now()}).
		Exec(ctx)
	return err
}

// DeregisterWorker removes a registry entry. Used by the supervisor once a
// worker process has exited (cleanly or forcibly).
func (s *Store) DeregisterWorker(ctx context.Context, workerID string) error {
	_, err := s.db.NewDelete().
		Model((*workerModel)(nil)).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	return err
}

// ListWorkers returns every registry entry. Liveness annotation (PID
// existence check) is the supervisor's responsibility, since it requires
// OS-level process inspection that has no place in the storage layer.
func (s *Store) ListWorkers(ctx context.Context) ([]WorkerRecord, error) {
	var models []*workerModel
	if err := s.db.NewSelect().Model(&models).Order("started_at ASC").Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]WorkerRecord, len(models))
	for i, m := range models {
		ret[i] = m.toRecord()
	}
	return ret, nil
}
