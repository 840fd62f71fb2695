package runutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWait(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name     string
		ctx      context.Context
		duration time.Duration
		atLeast  time.Duration
		atMost   time.Duration
		err      error
	}{
		{"Sleeps", context.Background(), 20 * time.Millisecond, 20 * time.Millisecond, time.Second, nil},
		{"Zero", context.Background(), 0, 0, 10 * time.Millisecond, nil},
		{"Negative", context.Background(), -time.Second, 0, 10 * time.Millisecond, nil},
		{"Cancelled", cancelled, time.Minute, 0, time.Second, context.Canceled},
		{"CancelledZero", cancelled, 0, 0, time.Second, context.Canceled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			err := Wait(tc.ctx, tc.duration)
			took := time.Since(start)

			assert.ErrorIs(t, err, tc.err)
			assert.GreaterOrEqual(t, took, tc.atLeast)
			assert.LessOrEqual(t, took, tc.atMost)
		})
	}
}

func TestWaitDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, Wait(ctx, time.Minute), context.DeadlineExceeded)
}
