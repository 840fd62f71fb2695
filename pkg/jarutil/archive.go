package jarutil

import (
	"io"
	"iter"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

const ClassSuffix = ".class"

// Archive is a read-only view on a JAR file.
type Archive struct {
	path string
	rc   *zip.ReadCloser
}

// Open opens the JAR file at the given path. The caller must close the
// archive.
func Open(filename string) (*Archive, error) {
	rc, err := zip.OpenReader(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", filename)
	}

	return &Archive{
		path: filename,
		rc:   rc,
	}, nil
}

func (a *Archive) Path() string {
	return a.path
}

func (a *Archive) Close() error {
	return errors.Wrapf(a.rc.Close(), "failed to close archive %s", a.path)
}

// Len returns the number of entries, including directories.
func (a *Archive) Len() int {
	return len(a.rc.File)
}

// Entries iterates lazily over all entries in the order of the central
// directory. Entry contents are only read on demand.
func (a *Archive) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, f := range a.rc.File {
			if !yield(Entry{f: f}) {
				return
			}
		}
	}
}

// Classes is like Entries, but only yields class entries.
func (a *Archive) Classes() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for e := range a.Entries() {
			if !e.IsClass() {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Entry is a single file or directory within an Archive.
type Entry struct {
	f *zip.File
}

func (e Entry) Name() string {
	return e.f.Name
}

func (e Entry) IsDir() bool {
	return e.f.FileInfo().IsDir() || strings.HasSuffix(e.f.Name, "/")
}

// IsClass returns true for compiled classes that can be referenced by a class
// literal. Module and package descriptors are not classes in that sense.
func (e Entry) IsClass() bool {
	if e.IsDir() || !strings.HasSuffix(e.f.Name, ClassSuffix) {
		return false
	}

	switch path.Base(e.f.Name) {
	case "module-info.class", "package-info.class":
		return false
	}

	return true
}

// ClassName returns the binary name of the class, eg "com.vmware.vim25.AboutInfo"
// for "com/vmware/vim25/AboutInfo.class".
func (e Entry) ClassName() string {
	name := strings.TrimSuffix(e.f.Name, ClassSuffix)
	return strings.ReplaceAll(name, "/", ".")
}

// Size is the uncompressed size of the entry.
func (e Entry) Size() uint64 {
	return e.f.UncompressedSize64
}

// ReadAll reads the uncompressed contents of the entry.
func (e Entry) ReadAll() ([]byte, error) {
	rc, err := e.f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open entry %s", e.f.Name)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read entry %s", e.f.Name)
	}

	return data, nil
}
