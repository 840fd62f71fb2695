package cmdutil

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type Option func(*cobra.Command) error

// New creates a cobra command and applies all options. PreRun and
// PersistentPreRun hooks set by the options are chained instead of
// overwriting each other.
func New(use, desc string, options ...Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         desc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		preRuns           = make([]func(*cobra.Command, []string), 0)
		persistentPreRuns = make([]func(*cobra.Command, []string), 0)
	)

	for _, o := range options {
		err := o(cmd)
		Must(err)

		if cmd.PreRun != nil {
			preRuns = append(preRuns, cmd.PreRun)
		}
		cmd.PreRun = nil

		if cmd.PersistentPreRun != nil {
			persistentPreRuns = append(persistentPreRuns, cmd.PersistentPreRun)
		}
		cmd.PersistentPreRun = nil
	}

	if len(persistentPreRuns) > 0 {
		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			for _, run := range persistentPreRuns {
				run(cmd, args)
			}
		}
	}

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		for _, run := range preRuns {
			run(cmd, args)
		}
	}

	return cmd
}

func WithSubCommand(sub *cobra.Command) Option {
	return func(parent *cobra.Command) error {
		parent.AddCommand(sub)
		return nil
	}
}

// WithArgs sets the positional argument validation of the command.
func WithArgs(args cobra.PositionalArgs) Option {
	return func(cmd *cobra.Command) error {
		cmd.Args = args
		return nil
	}
}

// Runner binds its flags to a command and executes the command. Errors
// returned by Run terminate the application. If the error implements
// ExitCoder, its code is used as exit code.
type Runner interface {
	Bind(*cobra.Command) error
	Run(ctx context.Context, args []string) error
}

// ExitCoder is implemented by errors that carry their own exit code.
type ExitCoder interface {
	ExitCode() int
}

func WithRunner(runner Runner) Option {
	return func(cmd *cobra.Command) error {
		err := runner.Bind(cmd)
		if err != nil {
			return errors.Wrap(err, "failed to bind runner flags")
		}

		cmd.Run = func(cmd *cobra.Command, args []string) {
			ctx := SignalRootContext()
			HandleError(runner.Run(ctx, args))
		}
		return nil
	}
}

// HandleError logs the error and exits the application, if err does not equal
// nil. The exit code is taken from the error, if it implements ExitCoder, and
// defaults to ExitCodeGeneralError otherwise.
func HandleError(err error) {
	if err == nil {
		return
	}

	code := ExitCodeGeneralError
	var coder ExitCoder
	if errors.As(err, &coder) {
		code = coder.ExitCode()
	}

	exitWithError(err, code)
}
