package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vcf-sdk/classindex/pkg/cmdutil"
)

func main() {
	defer cmdutil.HandleExit()
	if err := NewRootCommand().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		cmdutil.Exit(cmdutil.ExitCodeUsage)
	}
}

func NewRootCommand() *cobra.Command {
	cmd := cmdutil.New(
		"classindex", "Generates a Java class that lists all annotated classes of a JAR",
		cmdutil.WithLogVerboseFlag(),
		cmdutil.WithLogToGraylog(),
		cmdutil.WithVersionCommand(),
		cmdutil.WithVersionLog(slog.LevelDebug),
		cmdutil.WithArgs(cobra.NoArgs),

		cmdutil.WithSubCommand(cmdutil.New(
			"list", "Prints the names of all annotated classes",
			cmdutil.WithArgs(cobra.NoArgs),
			cmdutil.WithRunner(new(ListRunner)),
		)),

		cmdutil.WithRunner(new(Runner)),
	)

	return cmd
}
