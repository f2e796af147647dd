package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/store"
	"github.com/queuectl/queuectl/internal/worker"
)

// defaultStopTimeout bounds how long a worker process waits for its
// in-flight job write-back to finish before internal-worker-run gives up
// and exits anyway; the supervisor's own SIGTERM/SIGKILL grace window is
// the outer backstop (§4.4).
const defaultStopTimeout = 25 * time.Second

func workerFor(id string, st *store.Store, log *zap.Logger) *worker.Worker {
	return worker.New(id, st, executor.New(), log, worker.Options{})
}
