package main

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/vcf-sdk/classindex/pkg/classindex"
	"github.com/vcf-sdk/classindex/pkg/typeutil"
)

type Instrumentation struct {
	l *sync.Mutex

	Durations struct {
		Steps   *DurationMap `json:"steps,omitempty"`
		Targets *DurationMap `json:"targets,omitempty"`
	} `json:"durations"`

	Sizes map[string]typeutil.JSONBytes   `json:"sizes,omitempty"`
	Scans map[string]classindex.ScanStats `json:"scans,omitempty"`
	Files map[string]*classindex.Result   `json:"files,omitempty"`
}

func NewInstrumentation() *Instrumentation {
	inst := new(Instrumentation)
	inst.l = new(sync.Mutex)

	inst.Durations.Steps = NewDurationMap()
	inst.Durations.Targets = NewDurationMap()

	return inst
}

// Add records the result of a generated target.
func (i *Instrumentation) Add(name string, result *classindex.Result) {
	i.l.Lock()
	defer i.l.Unlock()

	if i.Sizes == nil {
		i.Sizes = map[string]typeutil.JSONBytes{}
		i.Scans = map[string]classindex.ScanStats{}
		i.Files = map[string]*classindex.Result{}
	}

	i.Sizes[name] = typeutil.JSONBytes{Size: result.Size}
	i.Scans[name] = result.Stats
	i.Files[name] = result
}

// WriteMetrics writes the recorded results in the Prometheus text format, so
// it can be picked up by the node exporter textfile collector.
func (i *Instrumentation) WriteMetrics(filename string) error {
	i.l.Lock()
	defer i.l.Unlock()

	var (
		labels   = []string{"target"}
		registry = prometheus.NewRegistry()

		classes = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "classes",
			Help:      "Number of classes in the generated index.",
		}, labels)
		inspected = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "inspected_classes",
			Help:      "Number of parsed class files within the prefix.",
		}, labels)
		entries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "archive_entries",
			Help:      "Number of entries in the scanned archive.",
		}, labels)
		size = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "output_bytes",
			Help:      "Size of the generated file.",
		}, labels)
		changed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "changed",
			Help:      "Whether the last run changed the generated file.",
		}, labels)
		duration = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "duration_seconds",
			Help:      "Duration of the generation.",
		}, labels)
		lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "classindex",
			Name:      "last_success_timestamp_seconds",
			Help:      "Time of the last successful run.",
		})
	)

	registry.MustRegister(classes, inspected, entries, size, changed, duration, lastSuccess)

	for name, result := range i.Files {
		classes.WithLabelValues(name).Set(float64(result.Stats.Matched))
		inspected.WithLabelValues(name).Set(float64(result.Stats.Inspected))
		entries.WithLabelValues(name).Set(float64(result.Stats.Entries))
		size.WithLabelValues(name).Set(float64(result.Size))
		duration.WithLabelValues(name).Set(result.Duration.Seconds())
		if result.Changed {
			changed.WithLabelValues(name).Set(1)
		} else {
			changed.WithLabelValues(name).Set(0)
		}
	}
	lastSuccess.SetToCurrentTime()

	err := prometheus.WriteToTextfile(filename, registry)
	return errors.Wrapf(err, "failed to write metrics to %s", filename)
}

func Stopwatch(target *typeutil.JSONDuration) func() {
	start := time.Now()
	return func() {
		target.Duration = time.Since(start).Truncate(time.Millisecond)
	}
}

type DurationMap struct {
	m map[string]typeutil.JSONDuration
	l *sync.Mutex
}

func NewDurationMap() *DurationMap {
	return &DurationMap{
		m: map[string]typeutil.JSONDuration{},
		l: new(sync.Mutex),
	}
}

func (m *DurationMap) MarshalJSON() ([]byte, error) {
	m.l.Lock()
	defer m.l.Unlock()

	return json.Marshal(m.m)
}

func (m *DurationMap) Stopwatch(name string) func() {
	var d typeutil.JSONDuration
	stop := Stopwatch(&d)

	return func() {
		stop()

		m.l.Lock()
		defer m.l.Unlock()

		m.m[name] = d
	}
}

// dumpJSON writes data as indented JSON, colored if w is a terminal.
func dumpJSON(w io.Writer, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return errors.WithStack(err)
	}

	b = pretty.Pretty(b)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b = pretty.Color(b, pretty.TerminalStyle)
	}

	_, err = w.Write(b)
	return errors.WithStack(err)
}
