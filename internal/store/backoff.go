package store

import (
	"math"
	"time"
)

// backoffDelay computes the retry delay after a given attempt count, per
// §3/§4.1: delay = backoffBase^attempts seconds.
//
// Adapted from the teacher's exponential backoff calculator
// (backoff.go: backoffCounter.next), trimmed to the spec's exact
// integer-power formula — no jitter, no multiplier, no interval cap, since
// those are not part of the documented retry contract.
func backoffDelay(base int64, attempts uint32) time.Duration {
	if base < 1 {
		base = 1
	}
	seconds := math.Pow(float64(base), float64(attempts))
	return time.Duration(seconds * float64(time.Second))
}
