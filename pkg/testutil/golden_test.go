package testutil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcf-sdk/classindex/pkg/testutil"
)

type recorder struct {
	failures []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestAssertGoldenJSON(t *testing.T) {
	data := struct {
		Foo     string `json:"foo"`
		Bim     string `json:"bim"`
		Blubber int    `json:"blubber"`
	}{
		Foo:     "bar",
		Bim:     "baz",
		Blubber: 42,
	}

	testutil.AssertGoldenJSON(t, "test-fixtures/example-golden.json", data)
}

func TestAssertGoldenMismatch(t *testing.T) {
	t.Setenv(testutil.GoldenUpdateEnv, "")

	filename := filepath.Join(t.TempDir(), "golden.txt")
	require.NoError(t, os.WriteFile(filename, []byte("a\nb\n"), 0o644))

	r := new(recorder)
	testutil.AssertGolden(r, filename, []byte("a\nc\n"))
	require.Len(t, r.failures, 1)
	assert.Contains(t, r.failures[0], "-b\n+c\n")
	assert.Contains(t, r.failures[0], testutil.GoldenUpdateEnv)

	r = new(recorder)
	testutil.AssertGolden(r, filename, []byte("a\nb\n"))
	assert.Empty(t, r.failures)
}

func TestAssertGoldenMissing(t *testing.T) {
	t.Setenv(testutil.GoldenUpdateEnv, "")

	r := new(recorder)
	testutil.AssertGolden(r, filepath.Join(t.TempDir(), "missing.txt"), []byte("a\n"))
	require.Len(t, r.failures, 1)
	assert.Contains(t, r.failures[0], "+a\n")
}

func TestAssertGoldenUpdate(t *testing.T) {
	t.Setenv(testutil.GoldenUpdateEnv, "1")

	filename := filepath.Join(t.TempDir(), "nested", "golden.txt")

	r := new(recorder)
	testutil.AssertGolden(r, filename, []byte("updated\n"))
	assert.Empty(t, r.failures)

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "updated\n", string(content))
}
