// Package testutil compares test results with golden files, usually placed
// in the test-fixtures directory of a package.
//
// Golden files are rewritten with the current results when the environment
// variable TESTUTIL_UPDATE_GOLDEN is set, so changes can be reviewed with
// git diff:
//
//	TESTUTIL_UPDATE_GOLDEN=1 go test ./pkg/classindex/...
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

const GoldenUpdateEnv = `TESTUTIL_UPDATE_GOLDEN`

// TB is the subset of testing.TB that is needed for golden assertions.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertGolden fails the test, if the golden file content differs from data.
// The failure message contains a unified diff from the golden file to data.
// A missing golden file is treated like an empty one.
func AssertGolden(t TB, filename string, data []byte) {
	t.Helper()

	if os.Getenv(GoldenUpdateEnv) != "" {
		if err := update(filename, data); err != nil {
			t.Errorf("update golden file: %v", err)
			return
		}
	}

	golden, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		t.Errorf("read golden file: %v", err)
		return
	}

	if string(golden) == string(data) {
		return
	}

	udiff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(golden)),
		B:        difflib.SplitLines(string(data)),
		FromFile: filename,
		ToFile:   "current",
		Context:  3,
	})
	if err != nil {
		t.Errorf("diff golden file: %v", err)
		return
	}

	t.Errorf("%s does not match the current result; set %s to update it:\n%s",
		filename, GoldenUpdateEnv, udiff)
}

// AssertGoldenJSON encodes data as indented JSON with a trailing newline and
// compares it like AssertGolden.
func AssertGoldenJSON(t TB, filename string, data any) {
	t.Helper()

	encoded, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		t.Errorf("encode %T: %v", data, err)
		return
	}

	AssertGolden(t, filename, append(encoded, '\n'))
}

func update(filename string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(filename), 0o755)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
