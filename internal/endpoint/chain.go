// Package endpoint runs route handlers behind an ordered chain of filters.
//
// A filter sees the request on the way in and the result on the way out:
//
//	request ─► filter 1 ─► filter 2 ─► ... ─► handler
//	result  ◄─ filter 1 ◄─ filter 2 ◄─ ... ◄─┘
//
// Each filter either forwards to the next link or answers the request
// itself. Chains are assembled once when routes are mounted.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// ErrNoResult is returned when a link of the chain produced neither a
// result nor an error.
var ErrNoResult = errors.New("endpoint: link produced no result")

// Invocation carries the inbound request and the typed arguments bound from
// it down the chain. Filters read arguments; they do not replace them.
type Invocation struct {
	Request *http.Request
	args    []any
}

// NewInvocation binds args to r.
func NewInvocation(r *http.Request, args ...any) *Invocation {
	return &Invocation{Request: r, args: args}
}

// Arg returns the i-th bound argument, or nil if there is none.
func (inv *Invocation) Arg(i int) any {
	if i < 0 || i >= len(inv.args) {
		return nil
	}
	return inv.args[i]
}

// Len returns the number of bound arguments.
func (inv *Invocation) Len() int {
	return len(inv.args)
}

// Argument returns the first bound argument of type T.
func Argument[T any](inv *Invocation) (T, bool) {
	for _, a := range inv.args {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Next invokes the remainder of a chain.
type Next func(ctx context.Context, inv *Invocation) (Result, error)

// Filter is one link of a chain. A filter that does not call next must
// return a Result of its own. Errors from next are returned unchanged.
type Filter interface {
	Invoke(ctx context.Context, inv *Invocation, next Next) (Result, error)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(ctx context.Context, inv *Invocation, next Next) (Result, error)

// Invoke calls f.
func (f FilterFunc) Invoke(ctx context.Context, inv *Invocation, next Next) (Result, error) {
	return f(ctx, inv, next)
}

// Chain is an ordered list of filters. The first filter runs first on the way
// in and last on the way out.
type Chain []Filter

// NewChain returns a chain of filters in the given order.
func NewChain(filters ...Filter) Chain {
	return Chain(slices.Clone(filters))
}

// Append returns a new chain with filters added after c's filters. c is not
// modified.
func (c Chain) Append(filters ...Filter) Chain {
	out := make(Chain, 0, len(c)+len(filters))
	out = append(out, c...)
	return append(out, filters...)
}

// Then wraps terminal with the chain and returns the entry point.
func (c Chain) Then(terminal Next) Next {
	next := guard(terminal, "handler")
	for i := len(c) - 1; i >= 0; i-- {
		f, inner := c[i], next
		next = guard(func(ctx context.Context, inv *Invocation) (Result, error) {
			return f.Invoke(ctx, inv, inner)
		}, fmt.Sprintf("filter %T", f))
	}
	return next
}

// guard turns a nil result with a nil error into ErrNoResult.
func guard(link Next, name string) Next {
	return func(ctx context.Context, inv *Invocation) (Result, error) {
		res, err := link(ctx, inv)
		if err == nil && res == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoResult, name)
		}
		return res, err
	}
}
