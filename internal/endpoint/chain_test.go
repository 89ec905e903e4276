package endpoint

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFilter appends "<name>:in" before forwarding and "<name>:out" after.
func recordingFilter(name string, trace *[]string) Filter {
	return FilterFunc(func(ctx context.Context, inv *Invocation, next Next) (Result, error) {
		*trace = append(*trace, name+":in")
		res, err := next(ctx, inv)
		*trace = append(*trace, name+":out")
		return res, err
	})
}

func okHandler(trace *[]string) Next {
	return func(context.Context, *Invocation) (Result, error) {
		*trace = append(*trace, "handler")
		return OK("done"), nil
	}
}

func newInvocation(args ...any) *Invocation {
	return NewInvocation(httptest.NewRequest(http.MethodGet, "/api/contacts", http.NoBody), args...)
}

func TestChain_Order(t *testing.T) {
	var trace []string
	chain := NewChain(recordingFilter("a", &trace), recordingFilter("b", &trace), recordingFilter("c", &trace))

	res, err := chain.Then(okHandler(&trace))(context.Background(), newInvocation())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode())
	assert.Equal(t, []string{"a:in", "b:in", "c:in", "handler", "c:out", "b:out", "a:out"}, trace)
}

func TestChain_Empty(t *testing.T) {
	var trace []string
	res, err := Chain(nil).Then(okHandler(&trace))(context.Background(), newInvocation())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode())
	assert.Equal(t, []string{"handler"}, trace)
}

func TestChain_ShortCircuit(t *testing.T) {
	var trace []string
	stop := FilterFunc(func(context.Context, *Invocation, Next) (Result, error) {
		trace = append(trace, "stop")
		return BadRequest("stopped", ""), nil
	})
	chain := NewChain(recordingFilter("a", &trace), stop, recordingFilter("c", &trace))

	res, err := chain.Then(okHandler(&trace))(context.Background(), newInvocation())
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
	assert.Equal(t, []string{"a:in", "stop", "a:out"}, trace)
}

func TestChain_PostProcess(t *testing.T) {
	tag := FilterFunc(func(ctx context.Context, inv *Invocation, next Next) (Result, error) {
		res, err := next(ctx, inv)
		if jr, ok := res.(*JSONResult); ok {
			jr.WithHeader("X-Tag", "seen")
		}
		return res, err
	})

	res, err := NewChain(tag).Then(func(context.Context, *Invocation) (Result, error) {
		return OK(nil), nil
	})(context.Background(), newInvocation())
	require.NoError(t, err)
	assert.Equal(t, "seen", res.(*JSONResult).Header().Get("X-Tag"))
}

func TestChain_ErrorPropagatesUnchanged(t *testing.T) {
	var trace []string
	boom := errors.New("store unavailable")

	chain := NewChain(recordingFilter("a", &trace), recordingFilter("b", &trace))
	_, err := chain.Then(func(context.Context, *Invocation) (Result, error) {
		return nil, boom
	})(context.Background(), newInvocation())

	assert.Same(t, boom, err)
	assert.Equal(t, []string{"a:in", "b:in", "b:out", "a:out"}, trace)
}

func TestChain_FilterWithoutResult(t *testing.T) {
	silent := FilterFunc(func(context.Context, *Invocation, Next) (Result, error) {
		return nil, nil
	})
	var trace []string

	_, err := NewChain(silent).Then(okHandler(&trace))(context.Background(), newInvocation())
	require.ErrorIs(t, err, ErrNoResult)
	assert.Empty(t, trace)
}

func TestChain_HandlerWithoutResult(t *testing.T) {
	_, err := Chain(nil).Then(func(context.Context, *Invocation) (Result, error) {
		return nil, nil
	})(context.Background(), newInvocation())
	require.ErrorIs(t, err, ErrNoResult)
}

func TestChain_AppendDoesNotModify(t *testing.T) {
	var trace []string
	base := NewChain(recordingFilter("a", &trace))
	extended := base.Append(recordingFilter("b", &trace))

	assert.Len(t, base, 1)
	assert.Len(t, extended, 2)
}

func TestInvocation_Args(t *testing.T) {
	inv := newInvocation(int64(7), "body")

	assert.Equal(t, 2, inv.Len())
	assert.Equal(t, int64(7), inv.Arg(0))
	assert.Nil(t, inv.Arg(5))
	assert.Nil(t, inv.Arg(-1))

	id, ok := Argument[int64](inv)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	s, ok := Argument[string](inv)
	require.True(t, ok)
	assert.Equal(t, "body", s)

	_, ok = Argument[float64](inv)
	assert.False(t, ok)
}
