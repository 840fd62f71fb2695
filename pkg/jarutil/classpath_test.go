package jarutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArtifact(t *testing.T) {
	artifact, err := ParseArtifact("vim25:9.0.0.0")
	require.NoError(t, err)
	assert.Equal(t, Artifact{Name: "vim25", Version: "9.0.0.0"}, artifact)
	assert.Equal(t, "vim25:9.0.0.0", artifact.String())
	assert.Equal(t, "vim25-9.0.0.0.jar", artifact.Filename())
	assert.False(t, artifact.IsZero())
	assert.True(t, Artifact{}.IsZero())

	for _, invalid := range []string{"", "vim25", "vim25:", ":9.0.0.0"} {
		_, err := ParseArtifact(invalid)
		assert.Error(t, err, invalid)
	}
}

func touch(t *testing.T, parts ...string) string {
	t.Helper()

	name := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, nil, 0o644))
	return name
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	artifact := Artifact{Name: "vim25", Version: "9.0.0.0"}

	direct := touch(t, dir, "direct", "vim25-9.0.0.0.jar")
	libs := filepath.Join(dir, "libs")
	inLibs := touch(t, libs, "vim25-9.0.0.0.jar")
	touch(t, libs, "nested", "pbm-9.0.0.0.jar")
	other := touch(t, dir, "vim25-8.0.0.0.jar")

	cases := []struct {
		Name      string
		Classpath []string
		Want      string
	}{
		{
			Name:      "File",
			Classpath: []string{other, direct},
			Want:      direct,
		},
		{
			Name:      "Directory",
			Classpath: []string{filepath.Join(dir, "missing"), libs},
			Want:      inLibs,
		},
		{
			Name:      "FirstMatchWins",
			Classpath: []string{libs, direct},
			Want:      inLibs,
		},
		{
			Name:      "PathList",
			Classpath: []string{strings.Join([]string{other, libs}, string(filepath.ListSeparator))},
			Want:      inLibs,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := Resolve(tc.Classpath, artifact)
			require.NoError(t, err)
			assert.Equal(t, tc.Want, got)
		})
	}

	t.Run("NotFound", func(t *testing.T) {
		_, err := Resolve([]string{libs, other}, Artifact{Name: "pbm", Version: "9.0.0.0"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), "pbm-9.0.0.0.jar is not on the classpath")
	})
}
