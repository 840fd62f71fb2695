// Package logutil provides context-aware structured logging on top of
// log/slog.
//
// A subsystem logger is stored in the context together with a trace id per
// subsystem, so log lines of nested steps can be correlated:
//
//	ctx = logutil.Start(ctx, "generate")
//	ctx = logutil.WithField(ctx, "archive", path)
//	logutil.Get(ctx).Info("scanning archive")
//
// Get falls back to slog.Default, so library code can always log through the
// context, even if the caller never started a subsystem.
package logutil
