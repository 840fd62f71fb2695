package runutil

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vcf-sdk/classindex/pkg/logutil"
)

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error that must not be retried. Retry returns the
// wrapped error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls fn until it succeeds, returns a Permanent error or the number
// of attempts is exhausted. The error of the last attempt is returned.
func Retry(ctx context.Context, attempts int, bo Backoff, fn func(context.Context) error) error {
	var err error

	for attempt := range max(attempts, 1) {
		if werr := Wait(ctx, bo.Duration(attempt)); werr != nil {
			if err == nil {
				err = werr
			}
			return errors.WithStack(err)
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			return permanent.err
		}

		logutil.Get(ctx).Warn("attempt failed",
			"attempt", attempt+1,
			"attempts", attempts,
			"error", err.Error(),
		)
	}

	return err
}
