package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/internal/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	Id       uuid.UUID    `bun:"id,pk,type:uuid"`
	Command  string       `bun:"command,notnull"`
	State    job.Status   `bun:"state,notnull"`
	Priority job.Priority `bun:"priority,notnull,default:2"`
	Attempts uint32       `bun:"attempts,notnull,default:0"`

	// MaxRetriesAtLastAttempt records the max-retries value Store.Fail
	// read live from config the last time it evaluated this job; it is
	// informative only (display, metrics), never the source of truth for
	// the retry/DLQ decision itself, which always re-reads config.
	MaxRetriesAtLastAttempt uint32 `bun:"max_retries_at_last_attempt,notnull,default:0"`

	RunAt      time.Time  `bun:"run_at,notnull"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	StartedAt  *time.Time `bun:"started_at,nullzero,default:null"`
	FinishedAt *time.Time `bun:"finished_at,nullzero,default:null"`

	WorkerID string `bun:"worker_id,nullzero,default:null"`

	ExitCode *int   `bun:"exit_code,nullzero,default:null"`
	Stdout   string `bun:"stdout"`
	Stderr   string `bun:"stderr"`
	Error    string `bun:"error"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		Id:                      jm.Id,
		Command:                 jm.Command,
		State:                   jm.State,
		Priority:                jm.Priority,
		Attempts:                jm.Attempts,
		MaxRetriesAtLastAttempt: jm.MaxRetriesAtLastAttempt,
		RunAt:                   jm.RunAt,
		CreatedAt:               jm.CreatedAt,
		UpdatedAt:               jm.UpdatedAt,
		StartedAt:               jm.StartedAt,
		FinishedAt:              jm.FinishedAt,
		WorkerID:                jm.WorkerID,
		ExitCode:                jm.ExitCode,
		Stdout:                  jm.Stdout,
		Stderr:                  jm.Stderr,
		Error:                   jm.Error,
	}
}

func jobsToSlice(models []*jobModel) []*job.Job {
	ret := make([]*job.Job, len(models))
	for i, m := range models {
		ret[i] = m.toJob()
	}
	return ret
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// WorkerRecord is a snapshot of a registry entry, as returned by
// Store.ListWorkers.
type WorkerRecord struct {
	WorkerID  string
	OSPid     int
	StartedAt time.Time
}

type workerModel struct {
	bun.BaseModel `bun:"table:workers"`

	WorkerID  string    `bun:"worker_id,pk"`
	OSPid     int       `bun:"os_pid,notnull"`
	StartedAt time.Time `bun:"started_at,nullzero,notnull,default:current_timestamp"`
}

func (wm *workerModel) toRecord() WorkerRecord {
	return WorkerRecord{
		WorkerID:  wm.WorkerID,
		OSPid:     wm.OSPid,
		StartedAt: wm.StartedAt,
	}
}
