// Package problem writes RFC 7807 Problem Details responses.
package problem

import (
	"encoding/json"
	"net/http"
)

// ContentType is the media type of every problem response.
const ContentType = "application/problem+json"

const typeBase = "https://contactbook.herbhall.dev/problems/"

// Problem type URIs.
const (
	TypeNotFound     = typeBase + "not-found"
	TypeBadRequest   = typeBase + "bad-request"
	TypeValidation   = typeBase + "validation"
	TypeReadOnly     = typeBase + "read-only"
	TypeInternal     = typeBase + "internal-error"
	TypeUnauthorized = typeBase + "unauthorized"
	TypeForbidden    = typeBase + "forbidden"
	TypeRateLimited  = typeBase + "rate-limited"
)

// Problem is the RFC 7807 body. Title defaults to the status text.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Validation adds the failing fields, each with its messages.
type Validation struct {
	Problem
	Errors map[string][]string `json:"errors"`
}

func NewValidation(errs map[string][]string, instance string) Validation {
	if errs == nil {
		errs = map[string][]string{}
	}
	p := build(TypeValidation, http.StatusBadRequest, "", instance)
	p.Title = "One or more validation errors occurred."
	return Validation{Problem: p, Errors: errs}
}

func build(typ string, status int, detail, instance string) Problem {
	return Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

func NotFound(detail, instance string) Problem {
	return build(TypeNotFound, http.StatusNotFound, detail, instance)
}

func BadRequest(detail, instance string) Problem {
	return build(TypeBadRequest, http.StatusBadRequest, detail, instance)
}

// InternalError never carries a detail.
func InternalError(instance string) Problem {
	return build(TypeInternal, http.StatusInternalServerError, "", instance)
}

func Unauthorized(detail, instance string) Problem {
	return build(TypeUnauthorized, http.StatusUnauthorized, detail, instance)
}

func Forbidden(detail, instance string) Problem {
	return build(TypeForbidden, http.StatusForbidden, detail, instance)
}

func RateLimited(detail, instance string) Problem {
	return build(TypeRateLimited, http.StatusTooManyRequests, detail, instance)
}

// Write sends p with its own status.
func Write(w http.ResponseWriter, p Problem) { send(w, p.Status, p) }

func WriteValidation(w http.ResponseWriter, v Validation) { send(w, v.Status, v) }

func send(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
