package contacts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/contactbook/internal/endpoint"
)

func forward(called *bool) endpoint.Next {
	return func(context.Context, *endpoint.Invocation) (endpoint.Result, error) {
		*called = true
		return endpoint.NoContent(), nil
	}
}

func TestReadOnlyGuard(t *testing.T) {
	guard := ReadOnlyGuard(2, 3)

	tests := []struct {
		name       string
		method     string
		id         int64
		wantStatus int
		wantNext   bool
	}{
		{"delete protected", http.MethodDelete, 2, http.StatusBadRequest, false},
		{"put protected", http.MethodPut, 3, http.StatusBadRequest, false},
		{"delete unprotected", http.MethodDelete, 1, http.StatusNoContent, true},
		{"put unprotected", http.MethodPut, 4, http.StatusNoContent, true},
		{"get protected passes", http.MethodGet, 2, http.StatusNoContent, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(tc.method, "/api/contacts/x", http.NoBody)
			res, err := guard.Invoke(context.Background(), endpoint.NewInvocation(req, tc.id), forward(&called))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, res.StatusCode())
			assert.Equal(t, tc.wantNext, called)

			if tc.wantStatus == http.StatusBadRequest {
				pr, ok := res.(*endpoint.ProblemResult)
				require.True(t, ok, "result type = %T", res)
				assert.Equal(t, "Contact is read only and cannot be changed.", pr.Title)
				assert.Contains(t, pr.Detail, fmt.Sprintf("id %d", tc.id))
			}
		})
	}
}

func TestReadOnlyGuard_WrongArgument(t *testing.T) {
	called := false
	req := httptest.NewRequest(http.MethodDelete, "/api/contacts/x", http.NoBody)
	_, err := ReadOnlyGuard(2).Invoke(context.Background(), endpoint.NewInvocation(req, "2"), forward(&called))
	assert.Error(t, err)
	assert.False(t, called)
}

func TestReadOnlyGuard_Empty(t *testing.T) {
	called := false
	req := httptest.NewRequest(http.MethodDelete, "/api/contacts/2", http.NoBody)
	res, err := ReadOnlyGuard().Invoke(context.Background(), endpoint.NewInvocation(req, int64(2)), forward(&called))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, res.StatusCode())
}

func TestCreationRules(t *testing.T) {
	tests := []struct {
		name   string
		body   ContactForCreation
		fields []string
	}{
		{"valid", ContactForCreation{FirstName: "Jan", LastName: "Kowalski", Email: "jan@u.pl"}, nil},
		{"email optional", ContactForCreation{FirstName: "Jan", LastName: "Kowalski"}, nil},
		{"blank names", ContactForCreation{FirstName: " ", LastName: ""}, []string{"FirstName", "LastName"}},
		{"bad email", ContactForCreation{FirstName: "Jan", LastName: "K", Email: "nope"}, []string{"Email"}},
		{
			"too long",
			ContactForCreation{FirstName: strings.Repeat("a", 33), LastName: "K"},
			[]string{"FirstName"},
		},
		{
			"phone number",
			ContactForCreation{FirstName: "Jan", LastName: "K", Phones: []PhoneForCreation{{Number: "1"}, {Number: ""}}},
			[]string{"Phones[1].Number"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := tc.body
			errs := CreationRules.Validate(&body)
			got := make([]string, 0, len(errs))
			for f := range errs {
				got = append(got, f)
			}
			assert.ElementsMatch(t, tc.fields, got)
		})
	}
}

func TestUpdateRules(t *testing.T) {
	errs := UpdateRules.Validate(&ContactForUpdate{LastName: "Nowak", Email: "bad"})
	assert.Contains(t, errs, "FirstName")
	assert.Contains(t, errs, "Email")
	assert.NotContains(t, errs, "LastName")
}

func TestDemoContacts(t *testing.T) {
	demo, err := DemoContacts()
	require.NoError(t, err)
	require.Len(t, demo, 2)

	assert.Equal(t, int64(1), demo[0].ID)
	assert.Equal(t, "Jan Kowalski", demo[0].FullName())
	require.Len(t, demo[0].Phones, 2)
	assert.Equal(t, "Służbowy", demo[0].Phones[1].Description)
	assert.Equal(t, int64(1), demo[0].Phones[1].ContactID)

	assert.Equal(t, "anowak@u.pl", demo[1].Email)
	assert.Empty(t, demo[1].Phones)
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := parseSeed([]byte("contacts: [oops"))
	assert.Error(t, err)
}
