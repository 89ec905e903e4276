package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/HerbHall/contactbook/internal/problem"
)

type contextKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok && p != nil
}

// Policy is a named set of role and claim requirements. A principal
// satisfies it when it holds every role and every claim value.
type Policy struct {
	Name   string
	Roles  []string
	Claims map[string]string
}

// RequireAdminFromPoland admits admins whose country claim is Poland.
var RequireAdminFromPoland = Policy{
	Name:   "RequireAdminFromPoland",
	Roles:  []string{"admin"},
	Claims: map[string]string{"country": "Poland"},
}

// Allows reports whether p satisfies the policy.
func (pol Policy) Allows(p *Principal) bool {
	if p == nil {
		return false
	}
	for _, role := range pol.Roles {
		if !p.HasRole(role) {
			return false
		}
	}
	for k, want := range pol.Claims {
		if got, ok := p.Claim(k); !ok || got != want {
			return false
		}
	}
	return true
}

// Authenticate rejects requests without a valid bearer token with 401 and
// stores the principal in the request context otherwise. A nil verifier
// rejects every request.
func Authenticate(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				problem.Write(w, problem.Unauthorized("missing bearer token", r.URL.Path))
				return
			}
			if v == nil {
				problem.Write(w, problem.Unauthorized("authentication is not configured", r.URL.Path))
				return
			}
			p, err := v.Verify(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				problem.Write(w, problem.Unauthorized("invalid bearer token", r.URL.Path))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Require answers 403 unless the authenticated principal satisfies pol.
// It must run after Authenticate.
func Require(pol Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				problem.Write(w, problem.Unauthorized("not authenticated", r.URL.Path))
				return
			}
			if !pol.Allows(p) {
				problem.Write(w, problem.Forbidden("policy "+pol.Name+" not satisfied", r.URL.Path))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
