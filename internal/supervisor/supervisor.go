// Package supervisor owns the lifecycle of the worker pool: spawning N
// worker subprocesses, persisting their identities, forwarding shutdown,
// and reaping exited children (§4.4).
//
// The teacher has no process-management concept of its own (gqs dispatches
// work across goroutines, not OS processes); this package is new,
// combining the one-child-process-per-logical-worker shape used across
// the retrieval pack's worker implementations with the teacher's
// internal.Combine pattern (done_chan.go) for waiting on several
// independent shutdown paths at once.
package supervisor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/queuectl/queuectl/internal/store"
)

var (
	// ErrAlreadyRunning is returned by Start when the registry already
	// contains live workers.
	ErrAlreadyRunning = errors.New("supervisor: worker pool already running")

	// ErrNotRunning is returned by Stop when the registry is empty.
	ErrNotRunning = errors.New("supervisor: no worker pool running")
)

// DefaultGraceTimeout is how long Stop waits for a worker to exit after a
// graceful shutdown signal before force-killing it (§4.4: "e.g., 30s").
const DefaultGraceTimeout = 30 * time.Second

// WorkerArgs are the arguments passed to the re-exec'd binary to run it as
// a worker process; callers supply this so the supervisor package does not
// need to know the CLI's flag names.
type WorkerArgs func(workerID string) []string

// Supervisor spawns and manages the worker process pool.
type Supervisor struct {
	store        *store.Store
	log          *zap.Logger
	binaryPath   string
	workerArgs   WorkerArgs
	graceTimeout time.Duration
}

// New constructs a Supervisor. binaryPath is the executable re-exec'd for
// each worker (normally os.Executable()); workerArgs builds the argument
// list used to invoke it in worker mode for a given worker id.
func New(st *store.Store, log *zap.Logger, binaryPath string, workerArgs WorkerArgs) *Supervisor {
	return &Supervisor{
		store:        st,
		log:          log,
		binaryPath:   binaryPath,
		workerArgs:   workerArgs,
		graceTimeout: DefaultGraceTimeout,
	}
}

// WorkerStatus annotates a registry entry with observed liveness.
type WorkerStatus struct {
	store.WorkerRecord
	Alive bool
}

// gcDeadEntries removes registry rows whose PID is no longer alive and
// returns the surviving, annotated entries.
func (sv *Supervisor) gcDeadEntries(ctx context.Context) ([]WorkerStatus, error) {
	records, err := sv.store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}
	live := make([]WorkerStatus, 0, len(records))
	for _, r := range records {
		if isAlive(r.OSPid) {
			live = append(live, WorkerStatus{WorkerRecord: r, Alive: true})
			continue
		}
		if err := sv.store.DeregisterWorker(ctx, r.WorkerID); err != nil {
			sv.log.Warn("failed to garbage-collect dead worker", zap.String("worker_id", r.WorkerID), zap.Error(err))
		}
	}
	return live, nil
}

// Start refuses with ErrAlreadyRunning if the registry is non-empty with
// live PIDs. Otherwise it spawns count independent worker subprocesses and
// records each in the registry.
func (sv *Supervisor) Start(ctx context.Context, count int) error {
	live, err := sv.gcDeadEntries(ctx)
	if err != nil {
		return err
	}
	if len(live) > 0 {
		return ErrAlreadyRunning
	}
	for i := 0; i < count; i++ {
		id := uuid.New().String()
		cmd := exec.Command(sv.binaryPath, sv.workerArgs(id)...)
		cmd.Stdout = nil
		cmd.Stderr = nil
		detach(cmd)
		if err := cmd.Start(); err != nil {
			return err
		}
		if err := sv.store.RegisterWorker(ctx, id, cmd.Process.Pid); err != nil {
			_ = cmd.Process.Kill()
			return err
		}
		go reap(cmd)
		sv.log.Info("spawned worker", zap.String("worker_id", id), zap.Int("pid", cmd.Process.Pid))
	}
	return nil
}

// reap waits on a detached child so the OS does not accumulate zombies.
// The supervisor process does not otherwise track the child's lifetime;
// liveness is rechecked from the registry via isAlive on each
// Stop/Status/Start call.
func reap(cmd *exec.Cmd) {
	_ = cmd.Wait()
}

// Stop reads the registry, sends a graceful shutdown signal to each live
// PID, waits up to the configured grace period, then force-kills
// stragglers. The registry is cleared on return.
func (sv *Supervisor) Stop(ctx context.Context) error {
	records, err := sv.store.ListWorkers(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNotRunning
	}

	dones := make([]doneChan, 0, len(records))
	for _, r := range records {
		r := r
		d := make(doneChan)
		dones = append(dones, d)
		go func() {
			defer close(d)
			sv.shutdownOne(r)
		}()
	}
	<-combine(dones...)

	for _, r := range records {
		if err := sv.store.DeregisterWorker(ctx, r.WorkerID); err != nil {
			sv.log.Warn("failed to clear registry entry", zap.String("worker_id", r.WorkerID), zap.Error(err))
		}
	}
	return nil
}

func (sv *Supervisor) shutdownOne(r store.WorkerRecord) {
	if !isAlive(r.OSPid) {
		return
	}
	if err := sendTerm(r.OSPid); err != nil {
		sv.log.Warn("graceful signal failed, forcing kill", zap.String("worker_id", r.WorkerID), zap.Error(err))
		_ = sendKill(r.OSPid)
		return
	}
	deadline := time.Now().Add(sv.graceTimeout)
	for time.Now().Before(deadline) {
		if !isAlive(r.OSPid) {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	sv.log.Warn("worker did not exit within grace period, force-killing", zap.String("worker_id", r.WorkerID))
	_ = sendKill(r.OSPid)
}

// Restart stops the current pool (if any; ErrNotRunning is ignored) and
// starts a fresh one of count workers.
func (sv *Supervisor) Restart(ctx context.Context, count int) error {
	if err := sv.Stop(ctx); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return sv.Start(ctx, count)
}

// Status returns the registry annotated with liveness, garbage-collecting
// any dead entries first.
func (sv *Supervisor) Status(ctx context.Context) ([]WorkerStatus, error) {
	return sv.gcDeadEntries(ctx)
}

// SetGraceTimeout overrides the default 30s shutdown grace period; mainly
// useful for tests.
func (sv *Supervisor) SetGraceTimeout(d time.Duration) {
	sv.graceTimeout = d
}

// SelfExecutable resolves the path to the currently running binary, for
// use as Supervisor's binaryPath.
func SelfExecutable() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", err
	}
	return path, nil
}
