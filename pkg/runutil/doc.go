// Package runutil retries operations that fail for transient reasons, like
// network requests, with a configurable backoff between the attempts.
//
//	err := runutil.Retry(ctx, 3, runutil.ExponentialBackoff{
//	    Initial: 500 * time.Millisecond,
//	    Max:     5 * time.Second,
//	}, func(ctx context.Context) error {
//	    err := download(ctx)
//	    if isNotFound(err) {
//	        return runutil.Permanent(err)
//	    }
//	    return err
//	})
package runutil
