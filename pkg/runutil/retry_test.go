package runutil

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("connection reset by peer")

func TestRetry(t *testing.T) {
	bo := StaticBackoff{Sleep: time.Millisecond}

	cases := []struct {
		Name     string
		Attempts int
		Failures int
		Fail     error
		WantErr  error
		WantRuns int
	}{
		{Name: "Success", Attempts: 3, Failures: 0, WantRuns: 1},
		{Name: "Recovers", Attempts: 3, Failures: 2, Fail: errTransient, WantRuns: 3},
		{Name: "Exhausted", Attempts: 3, Failures: 5, Fail: errTransient, WantErr: errTransient, WantRuns: 3},
		{Name: "AtLeastOnce", Attempts: 0, Failures: 5, Fail: errTransient, WantErr: errTransient, WantRuns: 1},
		{Name: "Permanent", Attempts: 3, Failures: 5, Fail: Permanent(errTransient), WantErr: errTransient, WantRuns: 1},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			runs := 0
			err := Retry(context.Background(), tc.Attempts, bo, func(context.Context) error {
				runs++
				if runs <= tc.Failures {
					return tc.Fail
				}
				return nil
			})

			assert.Equal(t, tc.WantRuns, runs)
			if tc.WantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tc.WantErr, err)
			}
		})
	}
}

func TestRetryCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	runs := 0
	err := Retry(ctx, 5, StaticBackoff{Sleep: time.Hour}, func(context.Context) error {
		runs++
		cancel()
		return errTransient
	})

	assert.Equal(t, 1, runs)
	assert.ErrorIs(t, err, errTransient)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
