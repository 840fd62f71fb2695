package classindex

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/vcf-sdk/classindex/pkg/classfile"
	"github.com/vcf-sdk/classindex/pkg/jarutil"
	"github.com/vcf-sdk/classindex/pkg/logutil"
	"github.com/vcf-sdk/classindex/pkg/typeutil"
)

// ScanOptions select the classes of an archive.
type ScanOptions struct {
	// Descriptor of the class level annotation, eg
	// "Ljakarta/xml/bind/annotation/XmlType;".
	Descriptor string

	// Prefix restricts the scan to classes whose binary name starts with it.
	// Classes outside of the prefix are not decoded at all.
	Prefix string
}

// ScanStats describe a finished scan.
type ScanStats struct {
	Entries   int   `json:"entries"`
	Classes   int   `json:"classes"`
	Inspected int   `json:"inspected"`
	Matched   int   `json:"matched"`
	Bytes     int64 `json:"bytes"`
}

// Scan reads the archive once and returns the binary names of all classes
// within the prefix that declare the annotation.
func Scan(ctx context.Context, archivePath string, opts ScanOptions) (*typeutil.Set[string], ScanStats, error) {
	var stats ScanStats
	log := logutil.Get(ctx)

	archive, err := openArchive(archivePath)
	if err != nil {
		return nil, stats, err
	}
	defer archive.Close()

	stats.Entries = archive.Len()
	log.Debug("processing archive",
		"path", archive.Path(),
		"entries", stats.Entries,
		"annotation", classfile.TypeName(opts.Descriptor),
	)

	names := new(typeutil.Set[string])

	for entry := range archive.Classes() {
		if err := ctx.Err(); err != nil {
			return nil, stats, errors.Wrap(err, "scan aborted")
		}

		stats.Classes++

		name := entry.ClassName()
		if !strings.HasPrefix(name, opts.Prefix) {
			continue
		}
		stats.Inspected++

		corrupt := func(err error) error {
			return &ArchiveCorruptError{
				Archive: archive.Path(),
				Entry:   entry.Name(),
				Err:     err,
			}
		}

		data, err := entry.ReadAll()
		if err != nil {
			return nil, stats, corrupt(err)
		}
		stats.Bytes += int64(len(data))

		cf, err := classfile.Parse(data)
		if err != nil {
			return nil, stats, corrupt(err)
		}

		if cf.BinaryName() != name {
			return nil, stats, corrupt(errors.Errorf(
				"entry declares class %s", cf.BinaryName()))
		}

		if !cf.HasAnnotation(opts.Descriptor) {
			continue
		}

		entryLog := logutil.Get(logutil.WithField(ctx, "entry", entry.Name()))
		if names.Add(name) {
			entryLog.Debug("found annotated class", "class", name)
		} else {
			entryLog.Debug("duplicate class entry", "class", name)
		}
	}

	stats.Matched = names.Len()

	return names, stats, nil
}

func openArchive(archivePath string) (*jarutil.Archive, error) {
	fi, err := os.Stat(archivePath)
	if err != nil {
		return nil, &ArchiveNotFoundError{
			Archive: archivePath,
			Err:     err,
		}
	}
	if fi.IsDir() {
		return nil, &ArchiveNotFoundError{
			Archive: archivePath,
			Err:     errors.New("path is a directory"),
		}
	}

	archive, err := jarutil.Open(archivePath)
	if os.IsPermission(errors.Cause(err)) {
		return nil, &ArchiveNotFoundError{
			Archive: archivePath,
			Err:     err,
		}
	}
	if err != nil {
		return nil, &ArchiveCorruptError{
			Archive: archivePath,
			Err:     err,
		}
	}

	return archive, nil
}
