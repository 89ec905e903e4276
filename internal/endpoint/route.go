package endpoint

import (
	"net/http"
)

// Binder extracts the typed arguments of a route from the request. When the
// request cannot be bound it returns a Result instead, which is written
// without running the chain.
type Binder func(r *http.Request) ([]any, Result)

// FaultHandler renders an error that escaped the chain.
type FaultHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware wraps the whole route, outside the filter chain. It is used for
// transport concerns such as authentication that must run before any filter.
type Middleware func(http.Handler) http.Handler

// Route is one endpoint: a method and path, how to bind its arguments, the
// terminal handler and the filters that run around it.
type Route struct {
	Method     string
	Path       string
	Name       string
	Bind       Binder
	Handle     Next
	Filters    []Filter
	Middleware []Middleware
}

// Group is a set of routes sharing a path prefix and leading filters.
type Group struct {
	Prefix  string
	Filters []Filter
	Routes  []Route
}

// Pattern returns the http.ServeMux pattern of route within g.
func (g Group) Pattern(route Route) string {
	return route.Method + " " + g.Prefix + route.Path
}

// Mount registers every route of g on mux. Group filters run before route
// filters.
func (g Group) Mount(mux *http.ServeMux, faults FaultHandler) {
	base := NewChain(g.Filters...)
	for _, route := range g.Routes {
		mux.Handle(g.Pattern(route), Handler(route, base, faults))
	}
}

// Handler builds the http.Handler for route with base filters ahead of the
// route's own filters.
func Handler(route Route, base Chain, faults FaultHandler) http.Handler {
	run := base.Append(route.Filters...).Then(route.Handle)

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var args []any
		if route.Bind != nil {
			var rejected Result
			args, rejected = route.Bind(r)
			if rejected != nil {
				rejected.WriteResponse(w)
				return
			}
		}

		res, err := run(r.Context(), NewInvocation(r, args...))
		if err != nil {
			faults(w, r, err)
			return
		}
		res.WriteResponse(w)
	})

	for i := len(route.Middleware) - 1; i >= 0; i-- {
		h = route.Middleware[i](h)
	}
	return h
}
