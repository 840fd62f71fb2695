package cmdutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalRootContext returns a background context that gets cancelled on the
// first SIGINT or SIGTERM. The second signal kills the process with
// ExitCodeMultipleInterrupts, without waiting for the running step.
func SignalRootContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Debug("received signal, cancelling", "signal", <-signals)
		cancel()

		slog.Error("received second signal, exiting immediately", "signal", <-signals)
		os.Exit(ExitCodeMultipleInterrupts)
	}()

	return ctx
}
