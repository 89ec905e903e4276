package services

import (
	"fmt"
	"strings"
)

// Paging defaults for contact listing.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 50
)

// ContactQuery selects, orders and pages contacts. Zero values mean "not
// set": blank strings are ignored and zero page fields take the defaults
// when built through NewContactQuery.
type ContactQuery struct {
	LastName   string // Exact, case-sensitive last name.
	Search     string // Case-sensitive substring of the last name.
	OrderBy    string // "LastName", "FirstName" or "Email", any case.
	Desc       bool   // Descending order; only applies with OrderBy.
	PageNumber int    // 1-based.
	PageSize   int    // Clamped to MaxPageSize.
}

// NewContactQuery returns a query for the first page with the default size.
func NewContactQuery() ContactQuery {
	return ContactQuery{PageNumber: DefaultPageNumber, PageSize: DefaultPageSize}
}

// sortColumns maps lowercased OrderBy values to columns.
var sortColumns = map[string]string{
	"lastname":  "last_name",
	"firstname": "first_name",
	"email":     "email",
}

// normalize checks paging and clamps the page size.
func (q ContactQuery) normalize() (ContactQuery, error) {
	if q.PageNumber <= 0 {
		return q, fmt.Errorf("%w: page number %d must be at least 1", ErrInvalidPage, q.PageNumber)
	}
	if q.PageSize <= 0 {
		return q, fmt.Errorf("%w: page size %d must be at least 1", ErrInvalidPage, q.PageSize)
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q, nil
}

// where returns the conjunctive filter clause and its arguments.
func (q ContactQuery) where() (string, []any) {
	where := "1=1"
	var args []any

	// Blank filters are skipped; others match as given, spaces included.
	if strings.TrimSpace(q.LastName) != "" {
		where += " AND last_name = ?"
		args = append(args, q.LastName)
	}
	if strings.TrimSpace(q.Search) != "" {
		where += " AND instr(last_name, ?) > 0"
		args = append(args, q.Search)
	}
	return where, args
}

// orderBy returns the ORDER BY expression. Unknown columns fall back to
// insertion order; named columns break ties on id so pages are stable.
func (q ContactQuery) orderBy() string {
	col, ok := sortColumns[strings.ToLower(strings.TrimSpace(q.OrderBy))]
	if !ok {
		return "id ASC"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}
