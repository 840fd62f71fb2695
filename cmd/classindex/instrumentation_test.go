package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcf-sdk/classindex/pkg/classindex"
)

func TestDurationMap(t *testing.T) {
	m := NewDurationMap()

	stop := m.Stopwatch("scan")
	time.Sleep(2 * time.Millisecond)
	stop()

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var durations map[string]string
	require.NoError(t, json.Unmarshal(raw, &durations))
	require.Len(t, durations, 1)

	d, err := time.ParseDuration(durations["scan"])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	assert.Equal(t, d.Truncate(time.Millisecond), d)
}

func TestDumpJSON(t *testing.T) {
	inst := NewInstrumentation()
	inst.Add("vim25", &classindex.Result{
		Output: "Vim25Classes.java",
		Size:   2048,
		Stats:  classindex.ScanStats{Entries: 10, Classes: 8, Inspected: 6, Matched: 4},
	})

	var buf bytes.Buffer
	require.NoError(t, dumpJSON(&buf, inst))

	var data map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "2.000KiB", data["sizes"].(map[string]any)["vim25"])
	assert.Equal(t, float64(4), data["scans"].(map[string]any)["vim25"].(map[string]any)["matched"])
	assert.NotContains(t, buf.String(), "\x1b[")
}
