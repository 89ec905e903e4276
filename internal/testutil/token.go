package testutil

import (
	"testing"
	"time"

	"github.com/HerbHall/contactbook/internal/auth"
)

// Test token settings shared by Verifier and Token.
const (
	SigningKey = "contactbook-test-signing-key-0123456789"
	Issuer     = "contactbook"
	Audience   = "contactbook-api"
)

// Verifier returns an auth.Verifier bound to clock and the test key.
func Verifier(t *testing.T, clock *Clock) *auth.Verifier {
	t.Helper()
	v, err := auth.NewVerifier([]byte(SigningKey), Issuer, Audience, clock.Now)
	if err != nil {
		t.Fatalf("testutil.Verifier: %v", err)
	}
	return v
}

// Token issues a one-hour token for subject, valid at clock's time.
func Token(t *testing.T, clock *Clock, subject string, roles []string, claims map[string]string) string {
	t.Helper()
	iss, err := auth.NewIssuer([]byte(SigningKey), Issuer, Audience, clock.Now)
	if err != nil {
		t.Fatalf("testutil.Token: %v", err)
	}
	tok, err := iss.Issue(subject, roles, claims, time.Hour)
	if err != nil {
		t.Fatalf("testutil.Token: %v", err)
	}
	return tok
}
