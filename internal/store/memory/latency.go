package memory

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency is the simulated delay range applied to every store call.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// DefaultLatency mirrors the delays of a remote API.
var DefaultLatency = Latency{Min: 200 * time.Millisecond, Max: 500 * time.Millisecond}

// NoLatency disables the delay.
var NoLatency = Latency{}

func (l Latency) pick() time.Duration {
	if l.Max <= l.Min {
		return l.Min
	}
	return l.Min + rand.N(l.Max-l.Min+1)
}

// wait sleeps for a random duration in the range or until ctx is done.
func (l Latency) wait(ctx context.Context) error {
	d := l.pick()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
