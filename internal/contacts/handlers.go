package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/auth"
	"github.com/HerbHall/contactbook/internal/endpoint"
	"github.com/HerbHall/contactbook/internal/services"
)

// Route prefixes.
const (
	ContactsPrefix = "/api/contacts"
	PhonesPrefix   = "/api/contacts/{contactId}/phones"
)

// phoneRef identifies one phone of one contact.
type phoneRef struct {
	ContactID int64
	PhoneID   int64
}

// Groups returns the contacts and phones route groups.
func (m *Module) Groups() []endpoint.Group {
	audit := endpoint.NotFoundAudit(m.logger, m.notFound)
	readOnly := ReadOnlyGuard(m.readOnlyIDs...)
	authenticate := endpoint.Middleware(auth.Authenticate(m.verifier))

	return []endpoint.Group{
		{
			Prefix:  ContactsPrefix,
			Filters: []endpoint.Filter{audit},
			Routes: []endpoint.Route{
				// GET /api/contacts?lastName=Nowak&search=ski&orderBy=LastName&desc=true&pageNumber=1&pageSize=10
				{Method: http.MethodGet, Path: "", Name: "ListContacts", Bind: bindContactQuery, Handle: m.handleListContacts},
				{Method: http.MethodGet, Path: "/{id}", Name: "GetContact", Bind: bindID("id"), Handle: m.handleGetContact},
				{
					Method:  http.MethodPost,
					Path:    "",
					Name:    "CreateContact",
					Bind:    bindBody[ContactForCreation],
					Handle:  m.handleCreateContact,
					Filters: []endpoint.Filter{endpoint.ValidationGuard(CreationRules)},
				},
				{
					Method:  http.MethodPut,
					Path:    "/{id}",
					Name:    "UpdateContact",
					Bind:    bindIDAndBody[ContactForUpdate],
					Handle:  m.handleUpdateContact,
					Filters: []endpoint.Filter{readOnly, endpoint.ValidationGuard[*ContactForUpdate](UpdateRules)},
				},
				{
					Method:  http.MethodDelete,
					Path:    "/{id}",
					Name:    "DeleteContact",
					Bind:    bindID("id"),
					Handle:  m.handleDeleteContact,
					Filters: []endpoint.Filter{readOnly},
				},
			},
		},
		{
			Prefix:  PhonesPrefix,
			Filters: []endpoint.Filter{audit},
			Routes: []endpoint.Route{
				{
					Method:     http.MethodGet,
					Path:       "",
					Name:       "ListPhones",
					Bind:       bindID("contactId"),
					Handle:     m.handleListPhones,
					Middleware: []endpoint.Middleware{authenticate},
				},
				{
					Method: http.MethodGet,
					Path:   "/{phoneId}",
					Name:   "GetPhone",
					Bind:   bindPhoneRef,
					Handle: m.handleGetPhone,
					Middleware: []endpoint.Middleware{
						authenticate,
						auth.Require(auth.RequireAdminFromPoland),
					},
				},
			},
		},
	}
}

func (m *Module) handleListContacts(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	q, _ := endpoint.Argument[services.ContactQuery](inv)
	contacts, meta, err := m.contacts.List(ctx, q)
	if errors.Is(err, services.ErrInvalidPage) {
		return endpoint.BadRequest(err.Error(), inv.Request.URL.Path), nil
	}
	if err != nil {
		return nil, err
	}

	header, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode pagination: %w", err)
	}
	return endpoint.OK(toContactDtos(contacts)).WithHeader("X-Pagination", string(header)), nil
}

func (m *Module) handleGetContact(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	id, _ := endpoint.Argument[int64](inv)
	c, err := m.contacts.Get(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		return contactNotFound(inv, id), nil
	}
	if err != nil {
		return nil, err
	}
	return endpoint.OK(toContactDetailsDto(*c)), nil
}

func (m *Module) handleCreateContact(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	body, _ := endpoint.Argument[*ContactForCreation](inv)
	c := body.model()
	if err := m.contacts.Create(ctx, &c); err != nil {
		return nil, err
	}
	m.logger.Debug("contact created", zap.Int64("id", c.ID))
	return endpoint.Created(fmt.Sprintf("%s/%d", ContactsPrefix, c.ID), toContactDetailsDto(c)), nil
}

func (m *Module) handleUpdateContact(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	id, _ := endpoint.Argument[int64](inv)
	body, _ := endpoint.Argument[*ContactForUpdate](inv)
	c := body.model(id)
	err := m.contacts.Update(ctx, &c)
	if errors.Is(err, services.ErrNotFound) {
		return contactNotFound(inv, id), nil
	}
	if err != nil {
		return nil, err
	}
	return endpoint.NoContent(), nil
}

func (m *Module) handleDeleteContact(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	id, _ := endpoint.Argument[int64](inv)
	err := m.contacts.Delete(ctx, id)
	if errors.Is(err, services.ErrNotFound) {
		return contactNotFound(inv, id), nil
	}
	if err != nil {
		return nil, err
	}
	return endpoint.NoContent(), nil
}

func (m *Module) handleListPhones(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	contactID, _ := endpoint.Argument[int64](inv)
	m.logger.Info("getting phones for contact",
		zap.Int64("contact_id", contactID),
		zap.String("subject", subject(inv.Request)),
	)

	phones, err := m.phones.ListForContact(ctx, contactID)
	if errors.Is(err, services.ErrNotFound) {
		return contactNotFound(inv, contactID), nil
	}
	if err != nil {
		return nil, err
	}
	return endpoint.OK(toPhoneDtos(phones)), nil
}

func (m *Module) handleGetPhone(ctx context.Context, inv *endpoint.Invocation) (endpoint.Result, error) {
	ref, _ := endpoint.Argument[phoneRef](inv)
	m.logger.Info("getting phone for contact",
		zap.Int64("phone_id", ref.PhoneID),
		zap.Int64("contact_id", ref.ContactID),
		zap.String("subject", subject(inv.Request)),
	)

	p, err := m.phones.Get(ctx, ref.ContactID, ref.PhoneID)
	if errors.Is(err, services.ErrNotFound) {
		return endpoint.NotFound(
			fmt.Sprintf("Phone with id %d was not found for contact with id %d.", ref.PhoneID, ref.ContactID),
			inv.Request.URL.Path,
		), nil
	}
	if err != nil {
		return nil, err
	}
	return endpoint.OK(toPhoneDto(*p)), nil
}

func contactNotFound(inv *endpoint.Invocation, id int64) endpoint.Result {
	return endpoint.NotFound(fmt.Sprintf("Contact with id %d was not found.", id), inv.Request.URL.Path)
}

func subject(r *http.Request) string {
	if p, ok := auth.PrincipalFrom(r.Context()); ok {
		return p.Subject
	}
	return ""
}

// unmatched answers like the server fallback for a path segment that is
// not an integer.
func unmatched(r *http.Request) endpoint.Result {
	return endpoint.NotFound(r.URL.Path, r.URL.Path)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func bindID(name string) endpoint.Binder {
	return func(r *http.Request) ([]any, endpoint.Result) {
		id, ok := pathID(r, name)
		if !ok {
			return nil, unmatched(r)
		}
		return []any{id}, nil
	}
}

func bindPhoneRef(r *http.Request) ([]any, endpoint.Result) {
	contactID, ok := pathID(r, "contactId")
	if !ok {
		return nil, unmatched(r)
	}
	phoneID, ok := pathID(r, "phoneId")
	if !ok {
		return nil, unmatched(r)
	}
	return []any{phoneRef{ContactID: contactID, PhoneID: phoneID}}, nil
}

func decodeBody[T any](r *http.Request) (*T, endpoint.Result) {
	v := new(T)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, endpoint.BadRequest("request body is required", r.URL.Path)
		}
		return nil, endpoint.BadRequest("malformed JSON body: "+err.Error(), r.URL.Path)
	}
	return v, nil
}

func bindBody[T any](r *http.Request) ([]any, endpoint.Result) {
	body, rejected := decodeBody[T](r)
	if rejected != nil {
		return nil, rejected
	}
	return []any{body}, nil
}

// bindIDAndBody binds the {id} segment first and the body second.
func bindIDAndBody[T any](r *http.Request) ([]any, endpoint.Result) {
	id, ok := pathID(r, "id")
	if !ok {
		return nil, unmatched(r)
	}
	body, rejected := decodeBody[T](r)
	if rejected != nil {
		return nil, rejected
	}
	return []any{id, body}, nil
}

func bindContactQuery(r *http.Request) ([]any, endpoint.Result) {
	v := r.URL.Query()
	q := services.NewContactQuery()
	q.LastName = v.Get("lastName")
	q.Search = v.Get("search")
	q.OrderBy = v.Get("orderBy")

	if s := v.Get("desc"); s != "" {
		desc, err := strconv.ParseBool(s)
		if err != nil {
			return nil, endpoint.BadRequest(fmt.Sprintf("query parameter desc=%q is not a boolean", s), r.URL.Path)
		}
		q.Desc = desc
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"pageNumber", &q.PageNumber},
		{"pageSize", &q.PageSize},
	}
	for _, p := range ints {
		s := v.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, endpoint.BadRequest(fmt.Sprintf("query parameter %s=%q is not an integer", p.name, s), r.URL.Path)
		}
		*p.dst = n
	}
	return []any{q}, nil
}
