// Package cmdutil contains helper utilities for setting up a CLI with Go,
// providing basic application behavior and for reducing boilerplate code.
//
// # Graceful Application Exits
//
// Exit panics with a known value that gets recovered by HandleExit right
// before the process terminates. Unlike os.Exit, deferred cleanup still runs,
// which matters for build steps that create temporary files:
//
//	func main() {
//	    defer cmdutil.HandleExit()
//	    run()
//	}
//
// This is designed for applications only. Libraries should always return
// errors.
//
// # Command Structure
//
//	func main() {
//	    defer cmdutil.HandleExit()
//
//	    cmd := cmdutil.New(
//	        "classindex", "Generates class index sources from JAR files",
//	        cmdutil.WithLogVerboseFlag(),
//	        cmdutil.WithLogToGraylog(),
//	        cmdutil.WithVersionCommand(),
//	        cmdutil.WithVersionLog(slog.LevelDebug),
//	        cmdutil.WithRunner(new(Runner)),
//	    )
//
//	    if err := cmd.Execute(); err != nil {
//	        slog.Error("command failed", "error", err)
//	        cmdutil.Exit(cmdutil.ExitCodeUsage)
//	    }
//	}
//
// # Runner Pattern
//
// Runners are structs that define command line flags in Bind and execute the
// command in Run. Errors returned from Run are logged and terminate the
// process with ExitCodeGeneralError, or with the code of the error, if it
// implements ExitCoder.
//
//	type Runner struct {
//	    archive string
//	}
//
//	func (r *Runner) Bind(cmd *cobra.Command) error {
//	    cmd.PersistentFlags().StringVar(
//	        &r.archive, "archive", "",
//	        `Path to the JAR file.`)
//	    return nil
//	}
//
//	func (r *Runner) Run(ctx context.Context, args []string) error {
//	    return nil
//	}
//
// # Version Command
//
// WithVersionCommand attaches NewVersionCommand to the application. It prints
// the compiled version of the application and other build parameters. These
// values need to be set by the build system via ldflags:
//
//	go build -ldflags "\
//	  -X 'github.com/vcf-sdk/classindex/pkg/cmdutil.Name=classindex' \
//	  -X 'github.com/vcf-sdk/classindex/pkg/cmdutil.Version=${VERSION}' \
//	  -X 'github.com/vcf-sdk/classindex/pkg/cmdutil.CommitHash=${COMMIT}'"
package cmdutil
