package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vcf-sdk/classindex/pkg/classindex"
	"github.com/vcf-sdk/classindex/pkg/cmdutil"
)

// StaleError is returned in check mode, if at least one generated file
// differs from what would be generated.
type StaleError struct {
	Outputs []string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("generated files are out of date: %s", strings.Join(e.Outputs, ", "))
}

func (e *StaleError) ExitCode() int { return cmdutil.ExitCodeCustom }

type Runner struct {
	Targets TargetFlags

	Check       bool
	Stats       bool
	MetricsFile string

	Generator classindex.Generator
	Inst      *Instrumentation

	stdout io.Writer
	stderr io.Writer
}

func (r *Runner) Bind(cmd *cobra.Command) error {
	r.Inst = NewInstrumentation()
	r.Targets.Bind(cmd)

	cmd.Flags().BoolVar(
		&r.Check, "check", false,
		"Do not write anything, but fail if a generated file is out of date.")
	cmd.Flags().BoolVar(
		&r.Stats, "stats", false,
		"Print timings and sizes as JSON to stderr.")
	cmd.Flags().StringVar(
		&r.MetricsFile, "metrics-file", "",
		"Write Prometheus metrics to this textfile.")

	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		r.stdout = cmd.OutOrStdout()
		r.stderr = cmd.ErrOrStderr()
	}

	return nil
}

func (r *Runner) Run(ctx context.Context, _ []string) error {
	if r.Inst == nil {
		r.Inst = NewInstrumentation()
	}

	targets, err := r.Targets.Targets()
	if err != nil {
		return err
	}

	if r.Check {
		return r.runCheck(ctx, targets)
	}

	stop := r.Inst.Durations.Steps.Stopwatch("all")
	for _, target := range targets {
		sw := r.Inst.Durations.Targets.Stopwatch(targetName(target))
		result, err := r.Generator.Generate(ctx, target)
		sw()
		if err != nil {
			return errors.WithMessagef(err, "target %s", targetName(target))
		}

		r.Inst.Add(targetName(target), result)
	}
	stop()

	if r.MetricsFile != "" {
		err := r.Inst.WriteMetrics(r.MetricsFile)
		if err != nil {
			return err
		}
	}

	if r.Stats {
		return dumpJSON(r.errWriter(), r.Inst)
	}

	return nil
}

func (r *Runner) runCheck(ctx context.Context, targets []classindex.Target) error {
	var stale []string

	for _, target := range targets {
		result, err := r.Generator.Check(ctx, target)
		if err != nil {
			return errors.WithMessagef(err, "target %s", targetName(target))
		}

		if result.UpToDate {
			slog.Info("generated file is up to date", "output", result.Output)
			continue
		}

		slog.Warn("generated file is out of date", "output", result.Output)
		fmt.Fprint(r.errWriter(), result.Diff)
		stale = append(stale, result.Output)
	}

	if len(stale) > 0 {
		return &StaleError{Outputs: stale}
	}

	return nil
}

func (r *Runner) errWriter() io.Writer {
	if r.stderr == nil {
		return io.Discard
	}
	return r.stderr
}

// ListRunner prints the qualifying class names instead of generating a file.
type ListRunner struct {
	Targets TargetFlags
	Stats   bool

	Generator classindex.Generator

	stdout io.Writer
	stderr io.Writer
}

func (r *ListRunner) Bind(cmd *cobra.Command) error {
	r.Targets.Bind(cmd)

	cmd.Flags().BoolVar(
		&r.Stats, "stats", false,
		"Print scan statistics as JSON to stderr.")

	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		r.stdout = cmd.OutOrStdout()
		r.stderr = cmd.ErrOrStderr()
	}

	return nil
}

func (r *ListRunner) Run(ctx context.Context, _ []string) error {
	targets, err := r.Targets.Targets()
	if err != nil {
		return err
	}

	stats := map[string]classindex.ScanStats{}
	for _, target := range targets {
		names, s, err := r.Generator.List(ctx, target)
		if err != nil {
			return errors.WithMessagef(err, "target %s", targetName(target))
		}
		stats[targetName(target)] = s

		for _, name := range names {
			fmt.Fprintln(r.stdout, name)
		}
	}

	if r.Stats && r.stderr != nil {
		return dumpJSON(r.stderr, stats)
	}

	return nil
}
