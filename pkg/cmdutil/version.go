package cmdutil

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// Build parameters, set via ldflags. Values left at "unknown" are filled from
// the build info embedded by the Go toolchain, where possible.
var (
	Name       = "unknown"
	Version    = "unknown"
	GoModule   = "unknown"
	GoPackage  = "unknown"
	GoVersion  = "unknown"
	BuildDate  = "unknown"
	CommitDate = "unknown"
	CommitHash = "unknown"
)

type buildParam struct {
	name  string
	value string
}

func buildParams() []buildParam {
	var (
		module, pkg, goVersion = GoModule, GoPackage, GoVersion
		commitDate, commitHash = CommitDate, CommitHash
	)

	if info, ok := debug.ReadBuildInfo(); ok {
		fill := func(target *string, value string) {
			if *target == "unknown" && value != "" {
				*target = value
			}
		}

		fill(&module, info.Main.Path)
		fill(&pkg, info.Path)
		fill(&goVersion, info.GoVersion)
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				fill(&commitHash, s.Value)
			case "vcs.time":
				fill(&commitDate, s.Value)
			}
		}
	}

	return []buildParam{
		{"Name", Name},
		{"Version", Version},
		{"GoModule", module},
		{"GoPackage", pkg},
		{"GoVersion", goVersion},
		{"BuildDate", BuildDate},
		{"CommitDate", commitDate},
		{"CommitHash", commitHash},
	}
}

// NewVersionCommand creates a command that prints the build parameters.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Shows version of this application",

		// The root pre runs set up logging, which is not needed here.
		PersistentPreRun:  func(*cobra.Command, []string) {},
		PersistentPostRun: func(*cobra.Command, []string) {},

		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
			for _, p := range buildParams() {
				fmt.Fprintf(w, "%s:\t%s\n", p.name, p.value)
			}
			return w.Flush()
		},
	}
}

func WithVersionCommand() Option {
	return func(cmd *cobra.Command) error {
		cmd.AddCommand(NewVersionCommand())
		return nil
	}
}

// WithVersionLog logs the version with the given level on every start.
func WithVersionLog(level slog.Level) Option {
	return func(cmd *cobra.Command) error {
		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			attrs := make([]any, 0, 16)
			for _, p := range buildParams() {
				if p.name != "Name" {
					attrs = append(attrs, p.name, p.value)
				}
			}
			slog.Log(cmd.Context(), level, Name+" started", attrs...)
		}
		return nil
	}
}
