package classindex

import "fmt"

// ArchiveNotFoundError is returned, if the input archive does not exist or
// cannot be read.
type ArchiveNotFoundError struct {
	Archive string
	Err     error
}

func (e *ArchiveNotFoundError) Error() string {
	return fmt.Sprintf("archive %s not found: %v", e.Archive, e.Err)
}

func (e *ArchiveNotFoundError) Unwrap() error {
	return e.Err
}

// ArchiveCorruptError is returned, if the archive or one of the inspected
// class entries cannot be decoded. Entry is empty, if the archive itself is
// broken.
type ArchiveCorruptError struct {
	Archive string
	Entry   string
	Err     error
}

func (e *ArchiveCorruptError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("archive %s is corrupt: %v", e.Archive, e.Err)
	}
	return fmt.Sprintf("archive %s is corrupt: entry %s: %v", e.Archive, e.Entry, e.Err)
}

func (e *ArchiveCorruptError) Unwrap() error {
	return e.Err
}

// OutputWriteError is returned, if the generated file cannot be written.
type OutputWriteError struct {
	Archive string
	Output  string
	Err     error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("failed to write %s generated from %s: %v", e.Output, e.Archive, e.Err)
}

func (e *OutputWriteError) Unwrap() error {
	return e.Err
}
