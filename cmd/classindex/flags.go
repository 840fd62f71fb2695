package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vcf-sdk/classindex/pkg/classindex"
	"github.com/vcf-sdk/classindex/pkg/cmdutil"
	"github.com/vcf-sdk/classindex/pkg/jarutil"
)

// UsageError is returned for invalid flag combinations.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }
func (e *UsageError) ExitCode() int { return cmdutil.ExitCodeUsage }

// targetFlagNames are the flags that describe a single target. They cannot be
// combined with a config file.
var targetFlagNames = []string{
	"archive", "artifact", "classpath", "output-dir", "package",
	"class-name", "annotation", "prefix", "stamp",
}

// TargetFlags collects the targets from either a config file or the command
// line.
type TargetFlags struct {
	ConfigFile string
	Artifact   string
	Target     classindex.Target

	flags *pflag.FlagSet
}

func (f *TargetFlags) Bind(cmd *cobra.Command) {
	f.Target = classindex.DefaultTarget()
	f.flags = cmd.Flags()

	cmd.Flags().StringVarP(
		&f.ConfigFile, "config", "c", "",
		"YAML file with a list of targets.")
	cmd.Flags().StringVar(
		&f.Target.Archive, "archive", "",
		"Path or s3:// URL of the JAR to scan.")
	cmd.Flags().StringVar(
		&f.Artifact, "artifact", "",
		"Artifact to look up on the classpath (eg vim25:9.0.0.0).")
	cmd.Flags().StringSliceVar(
		&f.Target.Classpath, "classpath", nil,
		"Classpath to search the artifact in. Can be used multiple times.")
	cmd.Flags().StringVarP(
		&f.Target.OutputDir, "output-dir", "o", f.Target.OutputDir,
		"Source root of the generated file.")
	cmd.Flags().StringVar(
		&f.Target.Package, "package", f.Target.Package,
		"Package of the generated class.")
	cmd.Flags().StringVar(
		&f.Target.ClassName, "class-name", f.Target.ClassName,
		"Name of the generated class.")
	cmd.Flags().StringVar(
		&f.Target.Annotation, "annotation", f.Target.Annotation,
		"Class level annotation to select classes by.")
	cmd.Flags().StringVar(
		&f.Target.Prefix, "prefix", f.Target.Prefix,
		"Only classes with this name prefix are inspected.")
	cmd.Flags().StringVar(
		&f.Target.Stamp, "stamp", "",
		"File to store the input fingerprint in. Skips unchanged runs.")
}

// Targets returns the validated targets.
func (f *TargetFlags) Targets() ([]classindex.Target, error) {
	if f.ConfigFile != "" {
		for _, name := range targetFlagNames {
			if f.flags != nil && f.flags.Changed(name) {
				return nil, &UsageError{
					Err: errors.Errorf("--%s cannot be combined with --config", name),
				}
			}
		}

		config, err := classindex.LoadConfig(f.ConfigFile)
		if err != nil {
			return nil, err
		}
		return config.Targets, nil
	}

	target := f.Target
	if f.Artifact != "" {
		if target.Archive != "" {
			return nil, &UsageError{
				Err: errors.New("--archive and --artifact are mutually exclusive"),
			}
		}

		artifact, err := jarutil.ParseArtifact(f.Artifact)
		if err != nil {
			return nil, &UsageError{Err: err}
		}
		target.Artifact = artifact
	}

	if target.Archive == "" && target.Artifact.IsZero() {
		return nil, &UsageError{
			Err: errors.New("one of --config, --archive or --artifact is required"),
		}
	}

	err := target.Validate()
	if err != nil {
		return nil, &UsageError{Err: err}
	}

	return []classindex.Target{target}, nil
}

// targetName is used as metric label and stats key.
func targetName(t classindex.Target) string {
	if t.Name != "" {
		return t.Name
	}
	return t.Package + "." + t.ClassName
}
