// Package worker implements the claim -> execute -> update loop run by a
// single worker process, per §4.3.
//
// A Worker never holds more than one claim at a time (no intra-worker
// parallelism — §5). Lifecycle (Start/Stop exactly once) is adapted
// unchanged in shape from the teacher's lcBase; the claim/dispatch loop
// itself replaces the teacher's pull-then-fan-out-to-a-goroutine-pool
// design (internal.WorkerPool) with a single sequential loop, since the
// spec's worker pool is realized as independent OS processes rather than
// goroutines (§4.4, §9).
package worker

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/store"
)

const (
	defaultMinPoll    = 500 * time.Millisecond
	defaultMaxPoll    = 3 * time.Second
	defaultJobTimeout = 300 * time.Second
)

// Options configures a Worker's polling cadence.
type Options struct {
	// MinPollInterval is the poll cadence while claims are succeeding.
	// Defaults to 500ms.
	MinPollInterval time.Duration
	// MaxPollInterval caps the adaptive backoff applied after empty
	// polls. Defaults to 3s, honoring the "within a few seconds" bound
	// of §4.3/§9.
	MaxPollInterval time.Duration
}

// Worker runs the claim/execute/update loop for a single logical worker
// identity within one OS process.
type Worker struct {
	lcBase

	id       string
	store    *store.Store
	executor *executor.Executor
	log      *zap.Logger
	poller   *adaptivePoller

	stopping atomic.Bool
	done     chan struct{}
}

// New constructs a Worker bound to workerID. id should be stable for the
// lifetime of the OS process (the supervisor assigns one per spawned
// worker).
func New(id string, st *store.Store, exec *executor.Executor, log *zap.Logger, opts Options) *Worker {
	minPoll := opts.MinPollInterval
	if minPoll <= 0 {
		minPoll = defaultMinPoll
	}
	maxPoll := opts.MaxPollInterval
	if maxPoll <= 0 {
		maxPoll = defaultMaxPoll
	}
	return &Worker{
		id:       id,
		store:    st,
		executor: exec,
		log:      log,
		poller:   newAdaptivePoller(minPoll, maxPoll),
	}
}

// Start begins the claim/execute/update loop in a background goroutine.
// Start returns ErrDoubleStarted if already started.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.tryStart(); err != nil {
		return err
	}
	w.done = make(chan struct{})
	go w.run(ctx)
	return nil
}

// Stop requests cooperative shutdown: the loop finishes writing back the
// outcome of any job currently executing, then exits. Stop blocks up to
// timeout for that to happen and returns ErrStopTimeout if it does not.
func (w *Worker) Stop(timeout time.Duration) error {
	w.stopping.Store(true)
	return w.tryStop(timeout, w.done)
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for {
		if w.stopping.Load() || ctx.Err() != nil {
			return
		}
		jb, err := w.store.Claim(ctx, w.id)
		if err != nil {
			w.log.Error("claim failed", zap.Error(err))
			w.poller.sleep(ctx)
			continue
		}
		if jb == nil {
			w.poller.onEmpty()
			w.poller.sleep(ctx)
			continue
		}
		w.poller.onClaimed()
		w.log.Info("job claimed", zap.String("job_id", jb.Id.String()), zap.String("worker_id", w.id))

		// A job already claimed runs to completion even if ctx is
		// canceled mid-flight (a graceful "worker stop" signal): the
		// cooperative-shutdown contract of §4.3 is to finish the current
		// job and its store write-back, then exit, not to abort it.
		// Canceling ctx must only stop the loop from claiming new work,
		// never kill work already in flight — so the claim/execute/report
		// path below runs on a context detached from ctx's cancellation,
		// gated solely by the job's own timeout.
		jobCtx := context.WithoutCancel(ctx)

		timeout := w.jobTimeout(jobCtx)
		result, err := w.executor.Execute(jobCtx, jb.Command, timeout)
		if err != nil {
			// Execute only errors for a context canceled before the
			// command starts, and jobCtx is never canceled; if it does
			// happen, leave the row Processing for orphan recovery on
			// next open.
			w.log.Warn("execute aborted", zap.String("job_id", jb.Id.String()), zap.Error(err))
			continue
		}
		w.report(jobCtx, jb.Id, result)

		if w.stopping.Load() {
			return
		}
	}
}

func (w *Worker) jobTimeout(ctx context.Context) time.Duration {
	value, ok, err := w.store.ConfigGet(ctx, store.ConfigJobTimeout)
	if err != nil || !ok {
		return defaultJobTimeout
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultJobTimeout
	}
	return time.Duration(seconds) * time.Second
}

func (w *Worker) report(ctx context.Context, jobID uuid.UUID, result executor.Result) {
	idField := zap.String("job_id", jobID.String())
	switch {
	case result.SpawnError != nil:
		if _, err := w.store.Fail(ctx, jobID, -1, result.Stdout, result.Stderr, result.SpawnError.Error()); err != nil {
			w.log.Error("cannot record spawn failure", idField, zap.Error(err))
		}
	case result.TimedOut:
		if _, err := w.store.Fail(ctx, jobID, result.ExitCode, result.Stdout, result.Stderr, "timeout"); err != nil {
			w.log.Error("cannot record timeout", idField, zap.Error(err))
		}
	case result.ExitCode == 0:
		if err := w.store.Complete(ctx, jobID, result.Stdout, result.Stderr); err != nil {
			w.log.Error("cannot complete job", idField, zap.Error(err))
		}
	default:
		if _, err := w.store.Fail(ctx, jobID, result.ExitCode, result.Stdout, result.Stderr, "non-zero exit"); err != nil {
			w.log.Error("cannot record failure", idField, zap.Error(err))
		}
	}
}
