package classindex

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/vcf-sdk/classindex/pkg/jarutil"
	"github.com/vcf-sdk/classindex/pkg/logutil"
)

// Fetcher makes remote archives available locally.
type Fetcher interface {
	Fetch(ctx context.Context, location string, dir string) (string, error)
}

// Generator runs targets. The zero value works for local archives and
// creates an S3 fetcher on demand.
type Generator struct {
	Fetcher Fetcher
}

// Result describes a finished generation run.
type Result struct {
	Output   string        `json:"output"`
	Archive  string        `json:"archive"`
	Classes  []string      `json:"-"`
	Stats    ScanStats     `json:"stats"`
	Size     int64         `json:"size"`
	Changed  bool          `json:"changed"`
	Skipped  bool          `json:"skipped"`
	Duration time.Duration `json:"-"`
}

// CheckResult tells whether an existing generated file is up to date.
type CheckResult struct {
	Output   string
	UpToDate bool

	// Diff is a unified diff from the existing to the expected content.
	Diff string
}

// Generate scans the archive of the target and writes the generated source.
// Nothing gets written, if any step fails.
func (g *Generator) Generate(ctx context.Context, t Target) (*Result, error) {
	start := time.Now()
	ctx = logutil.WithFields(logutil.Start(ctx, "generate"), t.LogFields())
	log := logutil.Get(ctx)

	archivePath, cleanup, err := g.resolve(ctx, t)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &Result{
		Output:  t.OutputPath(),
		Archive: archivePath,
	}

	var fingerprint string
	if t.Stamp != "" {
		fingerprint, err = Fingerprint(archivePath, t)
		if err != nil {
			return nil, err
		}

		if upToDate(t.Stamp, fingerprint, result.Output) {
			log.Info("generated file is up to date", "output", result.Output)
			result.Skipped = true
			result.Duration = time.Since(start)
			return result, nil
		}
	}

	content, err := g.build(ctx, t, archivePath, result)
	if err != nil {
		return nil, err
	}

	// Written before the output. A stamp only counts while the output hash
	// matches, so a failed publish below leaves a stale stamp.
	if t.Stamp != "" {
		err = writeStamp(t.Stamp, fingerprint, content)
		if err != nil {
			return nil, &OutputWriteError{
				Archive: archivePath,
				Output:  t.Stamp,
				Err:     err,
			}
		}
	}

	previous, err := os.ReadFile(result.Output)
	result.Changed = err != nil || !bytes.Equal(previous, content)

	err = writeFileAtomic(result.Output, content)
	if err != nil {
		return nil, &OutputWriteError{
			Archive: archivePath,
			Output:  result.Output,
			Err:     err,
		}
	}
	result.Size = int64(len(content))

	result.Duration = time.Since(start)

	log.Info("generated file",
		"output", result.Output,
		"classes", len(result.Classes),
		"changed", result.Changed,
	)
	log.Info("generation completed", "duration-ms", result.Duration.Milliseconds())

	return result, nil
}

// Check renders the target like Generate, but compares the result with the
// existing file instead of writing it.
func (g *Generator) Check(ctx context.Context, t Target) (*CheckResult, error) {
	ctx = logutil.WithFields(logutil.Start(ctx, "check"), t.LogFields())

	archivePath, cleanup, err := g.resolve(ctx, t)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result := &Result{
		Output:  t.OutputPath(),
		Archive: archivePath,
	}

	content, err := g.build(ctx, t, archivePath, result)
	if err != nil {
		return nil, err
	}

	existing, err := os.ReadFile(result.Output)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to read %s", result.Output)
	}

	check := &CheckResult{
		Output:   result.Output,
		UpToDate: err == nil && bytes.Equal(existing, content),
	}
	if check.UpToDate {
		return check, nil
	}

	check.Diff, err = difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(content)),
		FromFile: result.Output,
		ToFile:   "generated",
		Context:  3,
		Eol:      "\n",
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create diff")
	}

	return check, nil
}

// List returns the sorted binary names of the classes that would be part of
// the generated file.
func (g *Generator) List(ctx context.Context, t Target) ([]string, ScanStats, error) {
	ctx = logutil.WithFields(logutil.Start(ctx, "list"), t.LogFields())

	archivePath, cleanup, err := g.resolve(ctx, t)
	if err != nil {
		return nil, ScanStats{}, err
	}
	defer cleanup()

	names, stats, err := Scan(ctx, archivePath, ScanOptions{
		Descriptor: t.Descriptor(),
		Prefix:     t.Prefix,
	})
	if err != nil {
		return nil, stats, err
	}

	return names.ToList(), stats, nil
}

func (g *Generator) build(ctx context.Context, t Target, archivePath string, result *Result) ([]byte, error) {
	names, stats, err := Scan(ctx, archivePath, ScanOptions{
		Descriptor: t.Descriptor(),
		Prefix:     t.Prefix,
	})
	if err != nil {
		return nil, err
	}

	result.Stats = stats
	result.Classes = names.ToList()

	return Render(RenderOptions{
		Package:   t.Package,
		ClassName: t.ClassName,
	}, result.Classes)
}

// resolve returns a local path to the archive of the target. The returned
// cleanup function must always be called.
func (g *Generator) resolve(ctx context.Context, t Target) (string, func(), error) {
	noop := func() {}

	if t.Archive == "" {
		archivePath, err := jarutil.Resolve(t.Classpath, t.Artifact)
		if err != nil {
			return "", noop, &ArchiveNotFoundError{
				Archive: t.Source(),
				Err:     err,
			}
		}
		return archivePath, noop, nil
	}

	if !jarutil.IsRemote(t.Archive) {
		return t.Archive, noop, nil
	}

	fetcher := g.Fetcher
	if fetcher == nil {
		s3fetcher, err := jarutil.NewS3Fetcher(ctx)
		if err != nil {
			return "", noop, &ArchiveNotFoundError{
				Archive: t.Archive,
				Err:     err,
			}
		}
		fetcher = s3fetcher
	}

	dir, err := os.MkdirTemp("", "classindex-")
	if err != nil {
		return "", noop, errors.Wrap(err, "failed to create download directory")
	}
	cleanup := func() {
		os.RemoveAll(dir)
	}

	archivePath, err := fetcher.Fetch(ctx, t.Archive, dir)
	if err != nil {
		cleanup()
		return "", noop, &ArchiveNotFoundError{
			Archive: t.Archive,
			Err:     err,
		}
	}

	return archivePath, cleanup, nil
}

// writeFileAtomic publishes the data with a rename, so readers never see a
// partially written file.
func writeFileAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp.*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}

	err = tmp.Chmod(0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to change mode of %s", tmpName)
	}

	err = tmp.Close()
	if err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}

	err = os.Rename(tmpName, filename)
	return errors.Wrapf(err, "failed to rename %s", tmpName)
}
