package runutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type span struct {
	low, high time.Duration
}

func assertWithin(t *testing.T, bo Backoff, want []span) {
	t.Helper()

	// jitter is random, so every attempt gets sampled a few times
	for range 20 {
		for attempt, s := range want {
			have := bo.Duration(attempt)
			assert.GreaterOrEqual(t, have, s.low, "attempt %d", attempt)
			assert.LessOrEqual(t, have, s.high, "attempt %d", attempt)
		}
	}
}

func TestStaticBackoff(t *testing.T) {
	assertWithin(t, StaticBackoff{Sleep: time.Millisecond}, []span{
		{0, 0},
		{time.Millisecond, time.Millisecond},
		{time.Millisecond, time.Millisecond},
	})
}

func TestExponentialBackoff(t *testing.T) {
	const ms = time.Millisecond

	t.Run("Fixed", func(t *testing.T) {
		assertWithin(t, ExponentialBackoff{Initial: 500 * ms, Max: 3 * time.Second}, []span{
			{0, 0},
			{500 * ms, 500 * ms},
			{time.Second, time.Second},
			{2 * time.Second, 2 * time.Second},
			{3 * time.Second, 3 * time.Second},
			{3 * time.Second, 3 * time.Second},
		})
	})

	// The download retries use these settings.
	t.Run("HalfJitter", func(t *testing.T) {
		assertWithin(t, ExponentialBackoff{Initial: 500 * ms, Max: 10 * time.Second, JitterProportion: 0.5}, []span{
			{0, 0},
			{250 * ms, 500 * ms},
			{500 * ms, time.Second},
			{time.Second, 2 * time.Second},
			{2 * time.Second, 4 * time.Second},
			{4 * time.Second, 8 * time.Second},
			{8 * time.Second, 10 * time.Second},
			{10 * time.Second, 10 * time.Second},
		})
	})

	t.Run("FullJitter", func(t *testing.T) {
		assertWithin(t, ExponentialBackoff{Initial: time.Second, Max: time.Minute, JitterProportion: 1}, []span{
			{0, 0},
			{0, time.Second},
			{0, 2 * time.Second},
			{0, 4 * time.Second},
		})
	})
}

func TestExponentialBackoffDoesNotOverflow(t *testing.T) {
	bo := ExponentialBackoff{Initial: 500 * time.Millisecond, Max: 10 * time.Second, JitterProportion: 0.5}

	for _, attempt := range []int{64, 1_000, 1_000_000, 1_000_000_000} {
		assert.Equal(t, 10*time.Second, bo.Duration(attempt), "attempt %d", attempt)
	}
}
