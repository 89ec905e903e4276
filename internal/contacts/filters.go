package contacts

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HerbHall/contactbook/internal/endpoint"
	"github.com/HerbHall/contactbook/internal/problem"
)

// ReadOnlyGuard rejects PUT and DELETE requests whose bound contact id is
// one of ids with a 400 read-only problem. Other methods pass through.
func ReadOnlyGuard(ids ...int64) endpoint.Filter {
	protected := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		protected[id] = struct{}{}
	}

	return endpoint.FilterFunc(func(ctx context.Context, inv *endpoint.Invocation, next endpoint.Next) (endpoint.Result, error) {
		switch inv.Request.Method {
		case http.MethodPut, http.MethodDelete:
		default:
			return next(ctx, inv)
		}

		id, ok := inv.Arg(0).(int64)
		if !ok {
			return nil, fmt.Errorf("read-only guard: first argument is %T, want int64", inv.Arg(0))
		}
		if _, ro := protected[id]; ro {
			return endpoint.Problem(problem.Problem{
				Type:     problem.TypeReadOnly,
				Title:    "Contact is read only and cannot be changed.",
				Status:   http.StatusBadRequest,
				Detail:   fmt.Sprintf("Contact with id %d is read only and cannot be changed.", id),
				Instance: inv.Request.URL.Path,
			}), nil
		}
		return next(ctx, inv)
	})
}
