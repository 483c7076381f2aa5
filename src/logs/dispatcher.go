// Package logs is the single path from a fault or an explicit log call to a
// logging backend. It attributes faults to the first frame outside the
// capture library, builds the context of each record and memoizes its
// serialized form per fault site.
package logs

import (
	"errors"
	"reflect"
	"strings"

	"faultcapture/src/fault"
	"faultcapture/src/metrics"
)

// Fields is a log context. An error stored under ErrorKey is treated as the
// fault the record is about.
type Fields map[string]any

// ErrorKey is the context key that carries an embedded fault.
const ErrorKey = "error"

// Dispatcher turns log calls into backend records.
type Dispatcher struct {
	backend   Backend
	depth     int
	bodyLimit int
	metrics   *metrics.Collector
	cache     *contextCache
	serialize func(ctx map[string]any, depth int) map[string]string
	isTracked func(fault.Frame) bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithExportDepth sets how deep nested values are rendered.
func WithExportDepth(depth int) Option {
	return func(d *Dispatcher) {
		if depth > 0 {
			d.depth = depth
		}
	}
}

// WithResponseBodyLimit caps the response body attached for failed HTTP
// requests. Zero leaves the body out.
func WithResponseBodyLimit(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.bodyLimit = n
		}
	}
}

// WithMetrics records cache hits and misses on c instead of the default
// collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Dispatcher) { d.metrics = c }
}

// New returns a dispatcher writing to backend.
func New(backend Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend:   backend,
		depth:     DefaultExportDepth,
		bodyLimit: 1024,
		metrics:   metrics.Default(),
		cache:     newContextCache(),
		serialize: serialize,
		isTracked: IsTrackedFrame,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromConfig builds the configured backend and a dispatcher over it.
func NewFromConfig(cfg Config, opts ...Option) (*Dispatcher, error) {
	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{
		WithExportDepth(cfg.ExportDepth),
		WithResponseBodyLimit(cfg.ResponseBodyLimit),
	}, opts...)
	return New(backend, opts...), nil
}

// Backend returns the backend records are written to.
func (d *Dispatcher) Backend() Backend { return d.backend }

// Emergency: system is unusable.
func (d *Dispatcher) Emergency(message any, context any) {
	d.log(LevelEmergency, message, context)
}

// Alert: action must be taken immediately.
func (d *Dispatcher) Alert(message any, context any) {
	d.log(LevelAlert, message, context)
}

// Critical: a component is unavailable or an exception went unhandled.
func (d *Dispatcher) Critical(message any, context any) {
	d.log(LevelCritical, message, context)
}

func (d *Dispatcher) Error(message any, context any) {
	d.log(LevelError, message, context)
}

func (d *Dispatcher) Warning(message any, context any) {
	d.log(LevelWarning, message, context)
}

func (d *Dispatcher) Notice(message any, context any) {
	d.log(LevelNotice, message, context)
}

func (d *Dispatcher) Info(message any, context any) {
	d.log(LevelInfo, message, context)
}

func (d *Dispatcher) Debug(message any, context any) {
	d.log(LevelDebug, message, context)
}

// Log writes a record at an arbitrary level.
func (d *Dispatcher) Log(level Level, message any, context any) {
	d.log(level, message, context)
}

func (d *Dispatcher) log(level Level, message any, context any) {
	fields, embedded := splitContext(context)

	var f *fault.Fault
	switch {
	case embedded != nil:
		f = fault.Wrap(embedded)
		prefix := ""
		if message != nil {
			prefix = Export(message, d.depth)
		}
		message = strings.TrimSpace(prefix + " " + f.Message())
		fields["code"] = int(f.Code())
		fields["class"] = f.Class()
	case isError(message):
		f = fault.Wrap(message.(error))
		message = f.Message()
		fields["code"] = int(f.Code())
		fields["class"] = f.Class()
	default:
		f = fault.New(0, "")
	}

	origin := f.Attribute(d.isTracked)
	if trace := trimTrace(f.Trace(), origin); trace != "" {
		fields["trace"] = trace
	}
	if f.File() != "" {
		fields["file"] = f.File()
	}
	if f.Line() > 0 {
		fields["line"] = f.Line()
	}
	if extra := f.Extra(); extra != nil {
		fields["extra"] = extra
	}

	var rc HasRequestContext
	if errors.As(f, &rc) && !isNilPointer(rc) {
		for k, v := range requestFields(rc.RequestContext(), d.bodyLimit) {
			fields[k] = v
		}
	}

	rendered := Export(message, d.depth)

	key := cacheKey(level, rendered, f.File(), f.Line())
	serialized, ok := d.cache.get(key)
	if ok {
		d.metrics.CacheHit()
	} else {
		d.metrics.CacheMiss()
		serialized = d.cache.put(key, d.serialize(fields, d.depth))
	}

	d.backend.Log(level, rendered, serialized)
}

// splitContext copies the user context into a fresh map and pulls out an
// embedded error, if any.
func splitContext(context any) (map[string]any, error) {
	fields := make(map[string]any)
	switch c := context.(type) {
	case nil:
		return fields, nil
	case error:
		return fields, c
	case Fields:
		return copyFields(fields, c)
	case map[string]any:
		return copyFields(fields, c)
	case map[string]string:
		for k, v := range c {
			fields[k] = v
		}
		return fields, nil
	default:
		fields["value"] = c
		return fields, nil
	}
}

func copyFields(dst, src map[string]any) (map[string]any, error) {
	var embedded error
	for k, v := range src {
		if err, ok := v.(error); ok && k == ErrorKey {
			embedded = err
			continue
		}
		dst[k] = v
	}
	return dst, embedded
}

func isError(v any) bool {
	_, ok := v.(error)
	return ok
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// trimTrace drops the first n lines of trace.
func trimTrace(trace string, n int) string {
	for i := 0; i < n && trace != ""; i++ {
		idx := strings.IndexByte(trace, '\n')
		if idx < 0 {
			return ""
		}
		trace = trace[idx+1:]
	}
	return strings.TrimSpace(trace)
}

func serialize(ctx map[string]any, depth int) map[string]string {
	out := make(map[string]string, len(ctx))
	for k, v := range ctx {
		out[k] = Export(v, depth)
	}
	return out
}
