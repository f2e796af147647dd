package worker

import (
	"context"
	"time"
)

// adaptivePoller generalizes the teacher's fixed-interval
// internal.TimerTask (internal/timer_task.go) into a backoff-on-empty-poll
// schedule, per §4.3: "an adaptive backoff on empty polls is acceptable
// but must not exceed a few seconds — a scheduled job whose run_at has
// arrived must start within that bound."
//
// The interval doubles after every poll that finds nothing to claim, up to
// maxInterval, and resets to minInterval the moment a claim succeeds.
type adaptivePoller struct {
	minInterval time.Duration
	maxInterval time.Duration
	current     time.Duration
}

func newAdaptivePoller(minInterval, maxInterval time.Duration) *adaptivePoller {
	return &adaptivePoller{
		minInterval: minInterval,
		maxInterval: maxInterval,
		current:     minInterval,
	}
}

func (p *adaptivePoller) onEmpty() {
	next := p.current * 2
	if next > p.maxInterval {
		next = p.maxInterval
	}
	p.current = next
}

func (p *adaptivePoller) onClaimed() {
	p.current = p.minInterval
}

func (p *adaptivePoller) sleep(ctx context.Context) {
	timer := time.NewTimer(p.current)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
