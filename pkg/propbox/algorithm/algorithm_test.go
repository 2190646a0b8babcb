package algorithm_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/propbox/pkg/propbox/algorithm"
	"github.com/randalmurphal/propbox/pkg/propbox/observability"
	"github.com/randalmurphal/propbox/pkg/propbox/tags"
)

type pairs struct {
	reg         *tags.Registry
	IntInt      *tags.Kind[algorithm.Func[int, int]]
	FloatFloat  *tags.Kind[algorithm.Func[float64, float64]]
	IntFloat    *tags.Kind[algorithm.Func[int, float64]]
	StringInt   *tags.Kind[algorithm.Func[string, int]]
	FloatString *tags.Kind[algorithm.Func[float64, string]]
}

func newPairs(opts ...tags.Option) pairs {
	opts = append([]tags.Option{tags.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	r := tags.NewRegistry("algorithms", opts...)
	return pairs{
		reg:         r,
		IntInt:      algorithm.MustRegister[int, int](r, 0),
		FloatFloat:  algorithm.MustRegister[float64, float64](r, 1),
		IntFloat:    algorithm.MustRegister[int, float64](r, 2),
		StringInt:   algorithm.MustRegister[string, int](r, 3),
		FloatString: algorithm.MustRegister[float64, string](r, 4),
	}
}

func double(x int) int { return x * 2 }

func TestInvoke(t *testing.T) {
	p := newPairs()

	a, err := algorithm.New(p.IntInt, double)
	require.NoError(t, err)

	got, err := algorithm.Invoke(a, p.IntInt, 21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, p.IntInt.Tag(), a.Type())
	assert.Equal(t, "algorithm.Func[int,int]", a.TypeName())
}

func TestPairTagging(t *testing.T) {
	p := newPairs()

	// Same argument type, different result type.
	assert.NotEqual(t, p.IntInt.Tag(), p.IntFloat.Tag())
	// Same result type, different argument type.
	assert.NotEqual(t, p.IntInt.Tag(), p.StringInt.Tag())
	// Swapped pair.
	assert.NotEqual(t, p.FloatString.Tag(), p.StringInt.Tag())

	t.Run("registering a second pair on a used tag conflicts", func(t *testing.T) {
		_, err := algorithm.Register[int, string](p.reg, 0)
		assert.ErrorIs(t, err, tags.ErrTagConflict)
	})

	t.Run("registering a pair on a second tag conflicts", func(t *testing.T) {
		_, err := algorithm.Register[int, int](p.reg, 9)
		assert.ErrorIs(t, err, tags.ErrTypeConflict)
	})

	t.Run("re-registering the same pair is idempotent", func(t *testing.T) {
		k, err := algorithm.Register[int, int](p.reg, 0)
		require.NoError(t, err)
		assert.Same(t, p.IntInt, k)
	})
}

func TestInvoke_Mismatch(t *testing.T) {
	p := newPairs()
	called := false
	a := algorithm.MustNew(p.IntInt, func(x int) int {
		called = true
		return x
	}, algorithm.WithID("alg-1"))

	res, err := algorithm.Invoke(a, p.IntFloat, 1)
	assert.Equal(t, 0.0, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, tags.ErrTypeMismatch)
	assert.False(t, called, "mismatched invoke must not call the function")
	assert.Equal(t,
		"algorithm alg-1: invoke: type mismatch: want algorithm.Func[int,float64] (tag 2), holding algorithm.Func[int,int] (tag 0)",
		err.Error())
}

func TestSet(t *testing.T) {
	p := newPairs()
	a := algorithm.MustNew(p.IntInt, double)

	require.NoError(t, algorithm.Set(a, p.FloatString, func(f float64) string {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}))
	assert.Equal(t, p.FloatString.Tag(), a.Type())
	assert.True(t, algorithm.Is(a, p.FloatString))
	assert.False(t, algorithm.Is(a, p.IntInt))

	s, err := algorithm.Invoke(a, p.FloatString, 2.5)
	require.NoError(t, err)
	assert.Equal(t, "2.5", s)

	_, err = algorithm.Invoke(a, p.IntInt, 1)
	assert.True(t, tags.IsTypeMismatch(err))
}

func TestSet_Invalid(t *testing.T) {
	p := newPairs()
	a := algorithm.MustNew(p.IntInt, double)

	err := algorithm.Set(a, p.IntInt, nil)
	assert.ErrorIs(t, err, algorithm.ErrNilFunc)

	err = algorithm.Set(a, (*tags.Kind[algorithm.Func[int, int]])(nil), double)
	assert.ErrorIs(t, err, tags.ErrUnregistered)

	// Unchanged after failed sets.
	got, err := algorithm.Invoke(a, p.IntInt, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestNew_Invalid(t *testing.T) {
	p := newPairs()

	_, err := algorithm.New(p.IntInt, nil)
	assert.ErrorIs(t, err, algorithm.ErrNilFunc)

	_, err = algorithm.New((*tags.Kind[algorithm.Func[int, int]])(nil), double)
	assert.ErrorIs(t, err, tags.ErrUnregistered)

	assert.Panics(t, func() { algorithm.MustNew(p.IntInt, nil) })
}

func TestIDs(t *testing.T) {
	p := newPairs()

	a := algorithm.MustNew(p.IntInt, double)
	b := algorithm.MustNew(p.IntInt, double)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())

	named := algorithm.MustNew(p.IntInt, double, algorithm.WithID("doubler"))
	assert.Equal(t, "doubler", named.ID())
	assert.Equal(t, "doubler:algorithm.Func[int,int](0)", named.String())
	assert.Same(t, p.reg, named.Registry())
}

func TestCloneIndependence(t *testing.T) {
	p := newPairs()
	orig := algorithm.MustNew(p.IntInt, double, algorithm.WithID("orig"))
	clone := orig.Clone()

	assert.NotEqual(t, orig.ID(), clone.ID())
	assert.Equal(t, orig.Type(), clone.Type())

	require.NoError(t, algorithm.Set(clone, p.IntFloat, func(x int) float64 { return float64(x) / 2 }))

	assert.Equal(t, p.IntInt.Tag(), orig.Type())
	got, err := algorithm.Invoke(orig, p.IntInt, 5)
	require.NoError(t, err)
	assert.Equal(t, 10, got)

	half, err := algorithm.Invoke(clone, p.IntFloat, 5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, half)
}

func TestInvoke_Panic(t *testing.T) {
	p := newPairs()
	a := algorithm.MustNew(p.StringInt, func(s string) int {
		n, err := strconv.Atoi(s)
		if err != nil {
			panic(err)
		}
		return n
	}, algorithm.WithID("atoi"))

	n, err := algorithm.Invoke(a, p.StringInt, "12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = algorithm.Invoke(a, p.StringInt, "twelve")
	assert.Equal(t, 0, n)
	var pe *algorithm.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "atoi", pe.AlgorithmID)
	assert.NotEmpty(t, pe.Stack)
	assert.Contains(t, err.Error(), "algorithm atoi panicked")
}

func TestInvokeContext_Span(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	}()

	p := newPairs(tags.WithSpanManager(observability.NewSpanManager()))
	a := algorithm.MustNew(p.IntInt, double, algorithm.WithID("traced"))

	t.Run("successful invoke", func(t *testing.T) {
		exporter.Reset()
		got, err := algorithm.InvokeContext(context.Background(), a, p.IntInt, 4)
		require.NoError(t, err)
		assert.Equal(t, 8, got)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "propbox.invoke", spans[0].Name)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("mismatch marks span as error", func(t *testing.T) {
		exporter.Reset()
		_, err := algorithm.InvokeContext(context.Background(), a, p.IntFloat, 4)
		require.Error(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
	})

	t.Run("panic adds event", func(t *testing.T) {
		exporter.Reset()
		boom := algorithm.MustNew(p.IntInt, func(int) int { panic("boom") })
		_, err := algorithm.InvokeContext(context.Background(), boom, p.IntInt, 1)
		require.Error(t, err)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		var names []string
		for _, e := range spans[0].Events {
			names = append(names, e.Name)
		}
		assert.Contains(t, names, "panic.recovered")
	})
}

func TestInvokeContext_NoopByDefault(t *testing.T) {
	p := newPairs()
	a := algorithm.MustNew(p.IntInt, double)

	got, err := algorithm.InvokeContext(context.Background(), a, p.IntInt, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, got)
}

type access struct{ op, typ, outcome string }

type fakeMetrics struct {
	accesses []access
	invokes  int
}

func (m *fakeMetrics) RecordRegistration(context.Context, string, string) {}
func (m *fakeMetrics) RecordAccess(_ context.Context, _, op, typ, outcome string) {
	m.accesses = append(m.accesses, access{op, typ, outcome})
}
func (m *fakeMetrics) RecordMismatch(context.Context, string, string, string) {}
func (m *fakeMetrics) RecordInvoke(context.Context, string, string, time.Duration, error) {
	m.invokes++
}

func TestSetMetrics(t *testing.T) {
	m := &fakeMetrics{}
	p := newPairs(tags.WithMetrics(m))
	a := algorithm.MustNew(p.IntInt, double)

	require.NoError(t, algorithm.Set(a, p.FloatString, func(float64) string { return "x" }))
	require.Error(t, algorithm.Set(a, p.IntInt, nil))
	_, err := algorithm.Invoke(a, p.FloatString, 1.0)
	require.NoError(t, err)

	assert.Equal(t, []access{
		{"set", "algorithm.Func[float64,string]", "ok"},
		{"set", "algorithm.Func[int,int]", "error"},
		{"invoke", "algorithm.Func[float64,string]", "ok"},
	}, m.accesses)
	assert.Equal(t, 1, m.invokes)
}

func TestZeroAlgorithmIsEmpty(t *testing.T) {
	p := newPairs()
	var a algorithm.Algorithm

	assert.True(t, a.Empty())
	assert.False(t, algorithm.Is(&a, p.IntInt))
	_, err := algorithm.Invoke(&a, p.IntInt, 1)
	assert.ErrorIs(t, err, tags.ErrEmptyBox)

	require.NoError(t, algorithm.Set(&a, p.IntInt, double))
	assert.False(t, a.Empty())
	assert.False(t, algorithm.MustNew(p.IntInt, double).Empty())
}
