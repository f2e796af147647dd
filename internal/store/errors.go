package store

import "errors"

var (
	// ErrInvalidCommand is returned by Enqueue when command is empty.
	ErrInvalidCommand = errors.New("store: command must not be empty")

	// ErrInvalidPriority is returned by Enqueue when priority is not one
	// of job.PriorityHigh, job.PriorityNormal, job.PriorityLow.
	ErrInvalidPriority = errors.New("store: priority must be 1, 2 or 3")

	// ErrNotFound reports a job id that does not exist. No Store method
	// returns it: Get reports a missing job as (nil, nil), and Complete,
	// Fail and DLQRetry report ErrNotProcessing or ErrNotDead instead.
	ErrNotFound = errors.New("store: job not found")

	// ErrNotProcessing is returned by Complete/Fail when the referenced
	// job is not currently in the Processing state, typically because a
	// concurrent actor (an orphan-recovery requeue, a duplicate completion)
	// has already transitioned it.
	ErrNotProcessing = errors.New("store: job is not in processing state")

	// ErrNotDead is returned by DLQRetry when the referenced job is not
	// currently in the Dead state.
	ErrNotDead = errors.New("store: job is not in dead state")

	// ErrUnknownConfigKey is returned by ConfigSet for a key outside the
	// recognized set (max-retries, backoff-base, job-timeout,
	// retention-age-seconds).
	ErrUnknownConfigKey = errors.New("store: unknown configuration key")

	// ErrNotTerminal is returned by Purge when asked to target a
	// non-terminal status (Pending, Processing or Failed); retention
	// deletion is restricted to Completed and Dead jobs.
	ErrNotTerminal = errors.New("store: purge is only valid for completed or dead jobs")
)
