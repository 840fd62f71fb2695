package classindex

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// Fingerprint hashes everything the generated file depends on: the archive
// bytes, the selection of classes and the declaration of the generated class.
func Fingerprint(archivePath string, t Target) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", &ArchiveNotFoundError{
			Archive: archivePath,
			Err:     err,
		}
	}
	defer f.Close()

	h := blake3.New()

	fmt.Fprintf(h, "package=%s\n", t.Package)
	fmt.Fprintf(h, "class=%s\n", t.ClassName)
	fmt.Fprintf(h, "annotation=%s\n", t.Descriptor())
	fmt.Fprintf(h, "prefix=%s\n", t.Prefix)
	fmt.Fprintf(h, "template=%s\n", classTemplate)

	_, err = io.Copy(h, f)
	if err != nil {
		return "", &ArchiveNotFoundError{
			Archive: archivePath,
			Err:     err,
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func contentHash(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// stampRecord is the content of a stamp file. It binds the fingerprint of the
// inputs to the hash of the output that was generated from them.
type stampRecord struct {
	Inputs string
	Output string
}

func (s stampRecord) encode() []byte {
	return fmt.Appendf(nil, "inputs %s\noutput %s\n", s.Inputs, s.Output)
}

func parseStamp(raw []byte) (stampRecord, error) {
	var record stampRecord

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch {
		case !ok:
			return record, errors.Errorf("invalid stamp line %q", scanner.Text())
		case key == "inputs":
			record.Inputs = value
		case key == "output":
			record.Output = value
		}
	}

	if record.Inputs == "" || record.Output == "" {
		return record, errors.New("incomplete stamp")
	}

	return record, errors.WithStack(scanner.Err())
}

// upToDate returns true, if the stamp was written for the fingerprint and the
// output file still has exactly the content recorded in the stamp.
func upToDate(stamp, fingerprint, output string) bool {
	raw, err := os.ReadFile(stamp)
	if err != nil {
		return false
	}

	record, err := parseStamp(raw)
	if err != nil || record.Inputs != fingerprint {
		return false
	}

	content, err := os.ReadFile(output)
	if err != nil {
		return false
	}

	return contentHash(content) == record.Output
}

func writeStamp(stamp, fingerprint string, content []byte) error {
	record := stampRecord{
		Inputs: fingerprint,
		Output: contentHash(content),
	}

	err := writeFileAtomic(stamp, record.encode())
	return errors.Wrapf(err, "failed to write stamp %s", stamp)
}
