package jarutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned, if an archive could not be located.
var ErrNotFound = errors.New("archive not found")

// Artifact identifies a JAR by its Maven artifact name and version.
type Artifact struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ParseArtifact parses the "name:version" notation.
func ParseArtifact(s string) (Artifact, error) {
	name, version, ok := strings.Cut(s, ":")
	if !ok || name == "" || version == "" {
		return Artifact{}, errors.Errorf("invalid artifact %q, expected name:version", s)
	}

	return Artifact{Name: name, Version: version}, nil
}

func (a Artifact) IsZero() bool {
	return a.Name == "" && a.Version == ""
}

func (a Artifact) String() string {
	return fmt.Sprintf("%s:%s", a.Name, a.Version)
}

// Filename is the file name of the artifact JAR, eg "vim25-9.0.0.0.jar".
func (a Artifact) Filename() string {
	return fmt.Sprintf("%s-%s.jar", a.Name, a.Version)
}

// Resolve searches the classpath for the JAR of the given artifact. Each
// classpath element is either a file, which matches by its base name, or a
// directory, which gets searched without descending into sub directories.
// Elements that do not exist are ignored, like the JVM does.
func Resolve(classpath []string, artifact Artifact) (string, error) {
	want := artifact.Filename()

	for _, element := range classpath {
		for _, part := range filepath.SplitList(element) {
			if part == "" {
				continue
			}

			fi, err := os.Stat(part)
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return "", errors.Wrapf(err, "failed to inspect classpath element %s", part)
			}

			if !fi.IsDir() {
				if filepath.Base(part) == want {
					return part, nil
				}
				continue
			}

			candidate := filepath.Join(part, want)
			cfi, err := os.Stat(candidate)
			if err == nil && cfi.Mode().IsRegular() {
				return candidate, nil
			}
		}
	}

	return "", errors.Wrapf(ErrNotFound, "%s is not on the classpath", want)
}
