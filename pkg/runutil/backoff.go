package runutil

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff calculates the wait time before an attempt. The first attempt
// (attempt 0) never waits.
type Backoff interface {
	Duration(attempt int) time.Duration
}

// StaticBackoff waits the same duration before every retry.
type StaticBackoff struct {
	Sleep time.Duration
}

func (b StaticBackoff) Duration(attempt int) time.Duration {
	if attempt == 0 {
		return 0
	}
	return b.Sleep
}

// ExponentialBackoff doubles the wait time with every attempt until Max is
// reached. JitterProportion defines which share of the wait time is random.
type ExponentialBackoff struct {
	Initial          time.Duration
	Max              time.Duration
	JitterProportion float64
}

func (b ExponentialBackoff) Duration(attempt int) time.Duration {
	if attempt == 0 {
		return 0
	}

	var (
		factor = math.Pow(2., float64(attempt-1))
		fixed  = factor * (1. - b.JitterProportion)
		jitter = factor * b.JitterProportion * rand.Float64()
		total  = fixed + jitter
	)

	// Capping has to happen on the factor, since multiplying a large factor
	// with a nanosecond duration overflows.
	total = min(total, float64(b.Max)/float64(b.Initial))

	return time.Duration(float64(b.Initial) * total)
}
