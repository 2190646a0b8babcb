// Package algorithm wraps unary functions behind a type-erased handle.
//
// The tag of an Algorithm comes from the (argument, result) pair: each pair is
// registered as its own type, Func[A, R]. Invoke checks that pair before
// calling the function, so a Func[int, int] can never be called as a
// Func[int, float64].
package algorithm

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/propbox/pkg/propbox/box"
	"github.com/randalmurphal/propbox/pkg/propbox/observability"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

// Func is a function from A to R. Registering Func[A, R] binds a tag to the
// (A, R) pair.
type Func[A, R any] func(A) R

// Register binds the pair (A, R) to tag in r.
func Register[A, R any](r *tags.Registry, tag tags.Tag) (*tags.Kind[Func[A, R]], error) {
	return tags.Register[Func[A, R]](r, tag)
}

// MustRegister is like Register but panics on conflict.
func MustRegister[A, R any](r *tags.Registry, tag tags.Tag) *tags.Kind[Func[A, R]] {
	return tags.MustRegister[Func[A, R]](r, tag)
}

// Algorithm holds one function whose signature may change over its lifetime.
// It is not safe for concurrent Set; concurrent Invoke is safe as long as the
// wrapped function is.
type Algorithm struct {
	id string
	b  box.Box
}

// Option configures an Algorithm.
type Option func(*Algorithm)

// WithID sets the identifier used in logs and spans.
// If not set, a UUID is generated.
func WithID(id string) Option {
	return func(a *Algorithm) {
		a.id = id
	}
}

// New wraps fn, tagged by the pair kind k.
func New[A, R any](k *tags.Kind[Func[A, R]], fn Func[A, R], opts ...Option) (*Algorithm, error) {
	a := &Algorithm{id: uuid.New().String()}
	for _, opt := range opts {
		opt(a)
	}
	if fn == nil {
		return nil, fmt.Errorf("algorithm %s: %w", a.id, ErrNilFunc)
	}
	b, err := box.New(k, fn)
	if err != nil {
		return nil, fmt.Errorf("algorithm %s: %w", a.id, err)
	}
	a.b = b
	return a, nil
}

// MustNew is like New but panics on error.
func MustNew[A, R any](k *tags.Kind[Func[A, R]], fn Func[A, R], opts ...Option) *Algorithm {
	a, err := New(k, fn, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// ID returns the algorithm identifier.
func (a *Algorithm) ID() string { return a.id }

// Type returns the tag of the wrapped function pair. It is meaningless for
// the zero Algorithm, which wraps nothing; see Empty.
func (a *Algorithm) Type() tags.Tag { return a.b.Tag() }

// Empty reports whether a wraps no function. Only the zero Algorithm is empty.
func (a *Algorithm) Empty() bool { return a.b.Empty() }

// TypeName returns the registered name of the current pair.
func (a *Algorithm) TypeName() string { return a.b.TypeName() }

// Registry returns the registry that tagged the current function.
func (a *Algorithm) Registry() *tags.Registry { return a.b.Registry() }

// Clone returns an Algorithm wrapping the same function under a new ID.
// Set on the clone does not affect a.
func (a *Algorithm) Clone() *Algorithm {
	return &Algorithm{id: uuid.New().String(), b: a.b.Clone()}
}

// String formats the algorithm as "id:type(tag)".
func (a *Algorithm) String() string {
	return fmt.Sprintf("%s:%s", a.id, a.b)
}

// Is reports whether a currently wraps a Func[A, R].
func Is[A, R any](a *Algorithm, k *tags.Kind[Func[A, R]]) bool {
	return box.Holds(a.b, k)
}

// Set replaces the wrapped function, and with it the pair tag.
// On error the algorithm is unchanged.
func Set[A, R any](a *Algorithm, k *tags.Kind[Func[A, R]], fn Func[A, R]) error {
	if fn == nil {
		err := fmt.Errorf("algorithm %s: set: %w", a.id, ErrNilFunc)
		observeSet(a, k, err)
		return err
	}
	b, err := box.New(k, fn)
	if err != nil {
		err = fmt.Errorf("algorithm %s: set: %w", a.id, err)
		observeSet(a, k, err)
		return err
	}

	prev := a.b
	a.b = b
	if prev.Empty() || prev.Tag() != b.Tag() || prev.Registry() != b.Registry() {
		observability.LogTypeChange(b.Registry().Logger(), a.id, prev.TypeName(), b.TypeName())
	}
	observeSet(a, k, nil)
	return nil
}

func observeSet[A, R any](a *Algorithm, k *tags.Kind[Func[A, R]], err error) {
	if reg := registryFor(a, k); reg != nil {
		reg.ObserveAccess(context.Background(), "set", kindName(k), err)
	}
}

// Invoke calls the wrapped function with arg if a wraps a Func[A, R].
// If it wraps another pair, Invoke returns a *tags.TypeMismatchError without
// calling anything. A panic in the function is returned as *PanicError.
func Invoke[A, R any](a *Algorithm, k *tags.Kind[Func[A, R]], arg A) (R, error) {
	return invoke(context.Background(), a, k, arg)
}

// InvokeContext is Invoke wrapped in a trace span from the registry's
// span manager. ctx is used only for span propagation.
func InvokeContext[A, R any](ctx context.Context, a *Algorithm, k *tags.Kind[Func[A, R]], arg A) (R, error) {
	spans := observability.SpanManager(observability.NoopSpanManager{})
	if reg := registryFor(a, k); reg != nil {
		spans = reg.Spans()
	}

	ctx, span := spans.StartInvokeSpan(ctx, a.id, kindName(k))
	res, err := invoke(ctx, a, k, arg)
	var pe *PanicError
	if errors.As(err, &pe) {
		spans.AddSpanEvent(ctx, "panic.recovered", attribute.String("value", fmt.Sprint(pe.Value)))
	}
	spans.EndSpanWithError(span, err)
	return res, err
}

func invoke[A, R any](ctx context.Context, a *Algorithm, k *tags.Kind[Func[A, R]], arg A) (R, error) {
	fn, err := box.UnboxFor(a.b, k, "invoke")
	if err != nil {
		err = fmt.Errorf("algorithm %s: %w", a.id, err)
		if reg := registryFor(a, k); reg != nil {
			reg.ObserveAccess(ctx, "invoke", kindName(k), err)
		}
		var zero R
		return zero, err
	}

	reg := k.Registry()
	done := observability.TimedOperation()
	res, err := call(a.id, fn, arg)
	elapsed := done()

	reg.ObserveAccess(ctx, "invoke", k.Name(), err)
	reg.Metrics().RecordInvoke(ctx, reg.Name(), k.Name(), elapsed, err)
	if err != nil {
		observability.LogInvokeError(reg.Logger(), a.id, err, observability.Millis(elapsed))
	}
	return res, err
}

// call runs fn, converting a panic into *PanicError.
func call[A, R any](id string, fn Func[A, R], arg A) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				AlgorithmID: id,
				Value:       r,
				Stack:       string(debug.Stack()),
			}
		}
	}()
	return fn(arg), nil
}

func registryFor[A, R any](a *Algorithm, k *tags.Kind[Func[A, R]]) *tags.Registry {
	if k.Valid() == nil {
		return k.Registry()
	}
	return a.b.Registry()
}

func kindName[T any](k *tags.Kind[T]) string {
	if k.Valid() != nil {
		return "<unregistered>"
	}
	return k.Name()
}
