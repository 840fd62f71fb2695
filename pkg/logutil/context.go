package logutil

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mitchellh/mapstructure"
)

type loggerKey struct{}

// scope is the value stored in a context. The logger already carries all
// attributes; the traces are kept to derive nested scopes.
type scope struct {
	traces []trace
	log    *slog.Logger
}

type trace struct {
	id        string
	subsystem string
}

func fromContext(ctx context.Context) (scope, bool) {
	s, ok := ctx.Value(loggerKey{}).(scope)
	return s, ok
}

// Get returns the logger of the context or the default logger, if Start was
// never called on the context.
func Get(ctx context.Context) *slog.Logger {
	if s, ok := fromContext(ctx); ok {
		return s.log
	}
	return slog.Default()
}

// Start opens a new subsystem scope. The logger of the returned context gets
// a random trace id per subsystem in the chain ("trace-id-<subsystem>"), the
// combined "trace-id" and the "subsystem" path, eg "/generate/scan".
func Start(ctx context.Context, subsystem string) context.Context {
	parent, _ := fromContext(ctx)

	traces := make([]trace, len(parent.traces), len(parent.traces)+1)
	copy(traces, parent.traces)
	traces = append(traces, trace{
		id:        randomString(12),
		subsystem: subsystem,
	})

	var (
		attrs = make([]any, 0, len(traces)*2+4)
		ids   = make([]string, 0, len(traces))
		names = make([]string, 0, len(traces))
	)
	for _, t := range traces {
		attrs = append(attrs, "trace-id-"+slug.Make(t.subsystem), t.id)
		ids = append(ids, t.id)
		names = append(names, t.subsystem)
	}
	attrs = append(attrs,
		"subsystem", "/"+strings.Join(names, "/"),
		"trace-id", strings.Join(ids, "-"),
	)

	return context.WithValue(ctx, loggerKey{}, scope{
		traces: traces,
		log:    slog.Default().With(attrs...),
	})
}

// ContextOption modifies the logger of a scope.
type ContextOption func(*slog.Logger) *slog.Logger

// Update applies the options to the logger of the context. Contexts without
// a scope are returned unaltered.
func Update(ctx context.Context, opts ...ContextOption) context.Context {
	s, ok := fromContext(ctx)
	if !ok {
		return ctx
	}

	for _, opt := range opts {
		s.log = opt(s.log)
	}

	return context.WithValue(ctx, loggerKey{}, s)
}

// Field adds a single attribute.
func Field(key string, value any) ContextOption {
	return func(l *slog.Logger) *slog.Logger {
		return l.With(key, value)
	}
}

// Fields adds all map entries as attributes.
func Fields(fields map[string]any) ContextOption {
	return func(l *slog.Logger) *slog.Logger {
		attrs := make([]any, 0, len(fields))
		for k, v := range fields {
			attrs = append(attrs, slog.Any(k, v))
		}
		return l.With(attrs...)
	}
}

func WithField(ctx context.Context, key string, value any) context.Context {
	return Update(ctx, Field(key, value))
}

func WithFields(ctx context.Context, fields map[string]any) context.Context {
	return Update(ctx, Fields(fields))
}

// FromStruct converts the exported fields of a struct into log fields. Keys
// are taken from the logfield tag; fields tagged with "-" are left out:
//
//	type Target struct {
//	    Archive   string           `logfield:"archive"`
//	    Artifact  jarutil.Artifact `logfield:"-"`
//	}
func FromStruct(s any) map[string]any {
	fields := map[string]any{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "logfield",
		Result:  &fields,
	})
	if err == nil {
		err = dec.Decode(s)
	}
	if err != nil {
		return map[string]any{"logfield-error": err.Error()}
	}

	return fields
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
