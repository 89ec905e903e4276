// Package auth authenticates bearer tokens and gates routes on role and
// claim policies.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token handling.
var (
	ErrNoSigningKey = errors.New("auth: signing key is empty")
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Registered claim names read from tokens besides the standard ones.
const (
	ClaimRole = "role"
)

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Roles   []string
	Claims  map[string]string
}

// HasRole reports whether p carries role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Claim returns the string claim named key.
func (p *Principal) Claim(key string) (string, bool) {
	v, ok := p.Claims[key]
	return v, ok
}

// Verifier parses and checks HS256 tokens.
type Verifier struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewVerifier returns a Verifier for tokens signed with key. now may be nil.
func NewVerifier(key []byte, issuer, audience string, now func() time.Time) (*Verifier, error) {
	if len(key) == 0 {
		return nil, ErrNoSigningKey
	}
	if now == nil {
		now = time.Now
	}
	return &Verifier{key: key, issuer: issuer, audience: audience, now: now}, nil
}

// Verify parses raw and returns its principal.
func (v *Verifier) Verify(raw string) (*Principal, error) {
	claims := jwt.MapClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return principalFromClaims(sub, claims), nil
}

// registeredClaims are the JWT claims the token machinery owns.
var registeredClaims = map[string]bool{
	"sub": true, "iss": true, "aud": true, "exp": true, "nbf": true, "iat": true, "jti": true,
}

func principalFromClaims(sub string, claims jwt.MapClaims) *Principal {
	p := &Principal{Subject: sub, Claims: make(map[string]string)}
	for k, raw := range claims {
		switch {
		case registeredClaims[k]:
			continue
		case k == ClaimRole:
			p.Roles = append(p.Roles, stringsOf(raw)...)
		default:
			if s, ok := raw.(string); ok {
				p.Claims[k] = s
			}
		}
	}
	return p
}

// stringsOf accepts a single string or an array of strings.
func stringsOf(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

// Issuer signs HS256 tokens for the development CLI and tests.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewIssuer returns an Issuer signing with key. now may be nil.
func NewIssuer(key []byte, issuer, audience string, now func() time.Time) (*Issuer, error) {
	if len(key) == 0 {
		return nil, ErrNoSigningKey
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{key: key, issuer: issuer, audience: audience, now: now}, nil
}

// Issue signs a token for subject with the given roles and extra string
// claims, valid for ttl. Extra entries named like a registered claim or
// the role claim are dropped.
func (i *Issuer) Issue(subject string, roles []string, extra map[string]string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if i.issuer != "" {
		claims["iss"] = i.issuer
	}
	if i.audience != "" {
		claims["aud"] = i.audience
	}
	switch len(roles) {
	case 0:
	case 1:
		claims[ClaimRole] = roles[0]
	default:
		claims[ClaimRole] = roles
	}
	for k, v := range extra {
		if registeredClaims[k] || k == ClaimRole {
			continue
		}
		claims[k] = v
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
