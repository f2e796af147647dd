package job

import "fmt"

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	pending    -> processing
//	processing -> completed
//	processing -> failed     (transient, immediately resolved by the worker)
//	failed     -> pending    (retry scheduled)
//	failed     -> dead       (retries exhausted)
//	dead       -> pending    (operator DLQ retry)
//
// Unknown is reserved as a zero value and may be used to indicate an
// unspecified or invalid state in filtering contexts.
type Status uint8

const (
	// Unknown represents an unspecified or invalid job state.
	// It is the zero value of Status.
	Unknown Status = iota

	// Pending indicates the job is eligible for claiming once RunAt has
	// elapsed.
	Pending

	// Processing indicates the job has been claimed and is currently
	// owned by a worker.
	Processing

	// Completed indicates successful execution. Terminal; never retried.
	Completed

	// Failed is a transient state. A worker never leaves a row in this
	// state at rest: Store.Fail resolves it immediately into either
	// Pending (retry scheduled) or Dead (retries exhausted).
	Failed

	// Dead indicates the job has exhausted its retries (or hit a
	// non-retriable failure) and sits in the dead letter queue.
	Dead
)

func statusToString(status Status) string {
	switch status {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func statusFromString(s string) (Status, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown job status: %s", s)
	}
}

// ParseStatus converts a string representation of a status into a Status
// value. Recognized values are "pending", "processing", "completed",
// "failed", "dead" and "unknown". An error is returned for anything else.
func ParseStatus(s string) (Status, error) {
	return statusFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(statusToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := statusFromString(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// String returns the canonical string representation of the status.
func (s Status) String() string {
	return statusToString(s)
}
