// Package store provides a bun-based SQLite storage implementation for
// queuectl's job scheduling engine.
//
// # Overview
//
// Store owns:
//
//   - the jobs table and its state machine (job.Status)
//   - the atomic claim protocol (Claim)
//   - retry/backoff/DLQ policy (Fail, DLQRetry)
//   - the durable key/value Configuration map (config table)
//   - the worker registry (workers table), used by the supervisor
//
// # Concurrency Model
//
// Claim is implemented with a single atomic UPDATE statement against a
// subquery selecting the single highest-priority eligible row, using
// UPDATE ... WHERE id IN (subquery) RETURNING * to avoid races between
// selection and state transition. A losing concurrent Claim observes zero
// affected rows for a given candidate and simply finds nothing returned;
// it is expected to poll again.
//
// SQLite users should run with WAL mode and a busy_timeout, and should
// limit the connection pool to a single writer connection, exactly as the
// gqs storage layer this package is adapted from does.
//
// # Schema
//
// InitDB creates (if not exists) the jobs, config and workers tables and
// their supporting indexes, and seeds config with the documented defaults.
// It is idempotent and runs inside a single transaction. It does not
// perform destructive migrations; schema evolution beyond additive
// objects must be handled externally.
//
// # Recovery
//
// RecoverOrphans must be called once when a Store is opened. Any row left
// in Processing state (from a worker that crashed or was killed without
// completing its Store update) is reset to Pending with WorkerID cleared
// and Attempts unchanged, yielding at-least-once completion semantics
// across process crashes.
package store
