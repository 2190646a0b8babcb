package tags

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/propbox/pkg/propbox/observability"
)

// Tag is a small integer identifying a registered type within one Registry.
type Tag uint16

// entry is one immutable (type, tag) binding.
type entry struct {
	tag  Tag
	name string
	kind any // *Kind[T] for the bound T
}

// Registry maps concrete types to tags. Each registry is its own tag space;
// the mapping is a bijection and bindings are never removed.
//
// Registry is safe for concurrent use.
type Registry struct {
	name string

	mu     sync.RWMutex
	byTag  map[Tag]*entry
	byType map[any]*entry // keyed by typeKey[T]()
	byName map[string]*entry

	hooks atomic.Pointer[hooks]
}

// hooks are the observability sinks of a registry. They are swapped as a
// whole by Configure.
type hooks struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures a Registry.
type Option func(*hooks)

// WithLogger sets the logger used by the registry and the containers tagged
// through it. The logger is enriched with the registry name.
func WithLogger(logger *slog.Logger) Option {
	return func(h *hooks) {
		h.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(h *hooks) {
		h.metrics = m
	}
}

// WithSpanManager sets the span manager used for traced invocations.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(h *hooks) {
		h.spans = sm
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(name string, opts ...Option) *Registry {
	r := &Registry{
		name:   name,
		byTag:  make(map[Tag]*entry),
		byType: make(map[any]*entry),
		byName: make(map[string]*entry),
	}
	h := &hooks{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	r.hooks.Store(r.apply(h, opts))
	return r
}

// Configure replaces the observability hooks named by opts and keeps the
// rest. Bindings are unaffected. Use it to attach the process logger and
// telemetry to a registry created during package initialisation, such as
// Default.
func (r *Registry) Configure(opts ...Option) {
	cur := *r.hooks.Load()
	// The current logger is already enriched; apply re-enriches only a new one.
	next := r.apply(&hooks{metrics: cur.metrics, spans: cur.spans}, opts)
	if next.logger == nil {
		next.logger = cur.logger
	}
	r.hooks.Store(next)
}

func (r *Registry) apply(h *hooks, opts []Option) *hooks {
	base := h.logger
	h.logger = nil
	for _, opt := range opts {
		opt(h)
	}
	switch {
	case h.logger != nil:
		h.logger = observability.EnrichLogger(h.logger, r.name)
	case base != nil:
		h.logger = observability.EnrichLogger(base, r.name)
	}
	if h.metrics == nil {
		h.metrics = observability.NoopMetrics{}
	}
	if h.spans == nil {
		h.spans = observability.NoopSpanManager{}
	}
	return h
}

// Default is the process-wide registry for clients that need only one tag space.
var Default = NewRegistry("default")

// Name returns the registry name.
func (r *Registry) Name() string { return r.name }

// Logger returns the registry logger. Never nil.
func (r *Registry) Logger() *slog.Logger { return r.hooks.Load().logger }

// Metrics returns the metrics recorder. Never nil.
func (r *Registry) Metrics() observability.MetricsRecorder { return r.hooks.Load().metrics }

// Spans returns the span manager. Never nil.
func (r *Registry) Spans() observability.SpanManager { return r.hooks.Load().spans }

// Lookup returns the name of the type bound to tag.
func (r *Registry) Lookup(tag Tag) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byTag[tag]
	if !ok {
		return "", false
	}
	return e.name, true
}

// TagOf returns the tag bound to the type with the given name.
func (r *Registry) TagOf(name string) (Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	if !ok {
		return 0, false
	}
	return e.tag, true
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTag)
}

// Tags returns all bound tags in ascending order.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	tags := make([]Tag, 0, len(r.byTag))
	for t := range r.byTag {
		tags = append(tags, t)
	}
	r.mu.RUnlock()

	slices.Sort(tags)
	return tags
}

// Range calls fn for each registration in ascending tag order until fn
// returns false. It iterates over a snapshot, so fn may register new types.
func (r *Registry) Range(fn func(tag Tag, name string) bool) {
	r.mu.RLock()
	snapshot := make([]entry, 0, len(r.byTag))
	for _, e := range r.byTag {
		snapshot = append(snapshot, *e)
	}
	r.mu.RUnlock()

	slices.SortFunc(snapshot, func(a, b entry) int { return int(a.tag) - int(b.tag) })
	for _, e := range snapshot {
		if !fn(e.tag, e.name) {
			return
		}
	}
}

// ObserveAccess records a container access against this registry.
// Mismatches are additionally counted and logged at debug level.
func (r *Registry) ObserveAccess(ctx context.Context, op, typeName string, err error) {
	h := r.hooks.Load()
	outcome := observability.OutcomeOK
	var mismatch *TypeMismatchError
	switch {
	case err == nil:
	case errors.As(err, &mismatch):
		outcome = observability.OutcomeMismatch
		h.metrics.RecordMismatch(ctx, r.name, mismatch.WantName, mismatch.GotName)
		observability.LogMismatch(h.logger, op, mismatch.WantName, mismatch.GotName)
	default:
		outcome = observability.OutcomeError
	}
	h.metrics.RecordAccess(ctx, r.name, op, typeName, outcome)
}
