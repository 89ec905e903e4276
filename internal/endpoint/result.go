package endpoint

import (
	"encoding/json"
	"net/http"

	"github.com/HerbHall/contactbook/internal/problem"
	"github.com/HerbHall/contactbook/internal/validation"
)

// Result is the response a chain produces. Filters may inspect the status
// before it is written.
type Result interface {
	StatusCode() int
	WriteResponse(w http.ResponseWriter)
}

// JSONResult writes Body as JSON with extra headers.
type JSONResult struct {
	Status int
	Body   any
	header http.Header
}

// JSON returns a result with the given status and body.
func JSON(status int, body any) *JSONResult {
	return &JSONResult{Status: status, Body: body}
}

// OK returns a 200 JSON result.
func OK(body any) *JSONResult {
	return JSON(http.StatusOK, body)
}

// Created returns a 201 JSON result pointing at location.
func Created(location string, body any) *JSONResult {
	return JSON(http.StatusCreated, body).WithHeader("Location", location)
}

// Header returns the extra headers written with the result.
func (r *JSONResult) Header() http.Header {
	if r.header == nil {
		r.header = http.Header{}
	}
	return r.header
}

// WithHeader sets a header and returns r.
func (r *JSONResult) WithHeader(key, value string) *JSONResult {
	r.Header().Set(key, value)
	return r
}

func (r *JSONResult) StatusCode() int { return r.Status }

func (r *JSONResult) WriteResponse(w http.ResponseWriter) {
	for k, vs := range r.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	_ = json.NewEncoder(w).Encode(r.Body)
}

type statusResult int

// NoContent returns a 204 result with no body.
func NoContent() Result {
	return statusResult(http.StatusNoContent)
}

func (s statusResult) StatusCode() int { return int(s) }

func (s statusResult) WriteResponse(w http.ResponseWriter) {
	w.WriteHeader(int(s))
}

// ProblemResult writes a problem.Problem.
type ProblemResult struct {
	problem.Problem
}

// Problem returns a result for p.
func Problem(p problem.Problem) *ProblemResult {
	return &ProblemResult{Problem: p}
}

// NotFound returns a 404 problem result.
func NotFound(detail, instance string) *ProblemResult {
	return Problem(problem.NotFound(detail, instance))
}

// BadRequest returns a 400 problem result.
func BadRequest(detail, instance string) *ProblemResult {
	return Problem(problem.BadRequest(detail, instance))
}

func (p *ProblemResult) StatusCode() int { return p.Status }

func (p *ProblemResult) WriteResponse(w http.ResponseWriter) {
	problem.Write(w, p.Problem)
}

// ValidationResult writes a problem.Validation.
type ValidationResult struct {
	problem.Validation
}

// ValidationProblem returns a 400 result listing the failing fields.
func ValidationProblem(errs validation.Errors, instance string) *ValidationResult {
	return &ValidationResult{Validation: problem.NewValidation(errs, instance)}
}

func (v *ValidationResult) StatusCode() int { return v.Status }

func (v *ValidationResult) WriteResponse(w http.ResponseWriter) {
	problem.WriteValidation(w, v.Validation)
}
