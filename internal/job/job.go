// Package job defines the stateful representation of a unit of work within
// the queuectl scheduling engine.
//
// A Job augments a shell command with delivery and scheduling metadata:
// state machine position, attempt counter, scheduling timestamps, and the
// captured outcome of its most recent execution. Job values returned by the
// store are snapshots; mutating them does not change persisted state, and
// transitions must go through Store.
package job

import (
	"time"

	"github.com/google/uuid"
)

// Priority orders eligible jobs at claim time. Lower values claim first.
type Priority int

const (
	// PriorityHigh claims before PriorityNormal and PriorityLow.
	PriorityHigh Priority = 1
	// PriorityNormal is the default priority.
	PriorityNormal Priority = 2
	// PriorityLow claims last among eligible jobs.
	PriorityLow Priority = 3
)

// ValidPriority reports whether p is one of the three recognized levels.
func ValidPriority(p Priority) bool {
	return p == PriorityHigh || p == PriorityNormal || p == PriorityLow
}

// Job is a single unit of scheduled work.
//
// Invariants (enforced by Store, not by this type):
//
//	Status == Processing  <=>  WorkerID != "" && StartedAt != nil && FinishedAt == nil
//	Status in {Completed, Dead}  =>  FinishedAt != nil
//	Attempts is monotonically non-decreasing, except that an operator
//	DLQ retry (Store.DLQRetry) resets it to 0
//	Status == Dead  =>  Attempts > the max-retries value observed at DLQ entry
type Job struct {
	Id       uuid.UUID
	Command  string
	State    Status
	Priority Priority
	Attempts uint32

	// MaxRetriesAtLastAttempt records the live config value read the last
	// time Store.Fail evaluated this job. It is informative only (display,
	// metrics); the authoritative value is always read live from config
	// (see Store.Fail).
	MaxRetriesAtLastAttempt uint32

	RunAt      time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time

	WorkerID string

	ExitCode *int
	Stdout   string
	Stderr   string
	Error    string
}

// IsTerminal reports whether the job has reached a state from which it will
// not be retried automatically.
func (j *Job) IsTerminal() bool {
	return j.State == Completed || j.State == Dead
}
