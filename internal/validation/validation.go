// Package validation checks request payloads against explicit lists of
// field constraints. Each constraint is a {field, kind, parameter}
// descriptor with an accessor for the field value; there are no struct tags.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is a constraint kind.
type Kind int

const (
	// Required rejects empty and whitespace-only values.
	Required Kind = iota + 1
	// MaxLength rejects values longer than Param characters.
	MaxLength
	// Email rejects non-empty values that are not e-mail addresses.
	Email
)

func (k Kind) String() string {
	switch k {
	case Required:
		return "required"
	case MaxLength:
		return "max-length"
	case Email:
		return "email"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// fieldValidate runs single-value checks. It is safe for concurrent use.
var fieldValidate = validator.New()

// Errors maps a field name to its failure messages.
type Errors map[string][]string

// Add records msg against field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge copies every entry of other into e, prefixing field names.
func (e Errors) Merge(prefix string, other Errors) {
	for field, msgs := range other {
		e[prefix+field] = append(e[prefix+field], msgs...)
	}
}

// Validator validates values of type T.
type Validator[T any] interface {
	Validate(v T) Errors
}

// Rule is one constraint descriptor on one string field of T.
type Rule[T any] struct {
	Field string
	Kind  Kind
	Param int
	Value func(T) string
}

// check returns the failure message, or "" if value satisfies the rule.
func (r Rule[T]) check(value string) (string, error) {
	switch r.Kind {
	case Required:
		if err := fieldValidate.Var(strings.TrimSpace(value), "required"); err != nil {
			return fmt.Sprintf("The %s field is required.", r.Field), nil
		}
	case MaxLength:
		if err := fieldValidate.Var(value, fmt.Sprintf("max=%d", r.Param)); err != nil {
			return fmt.Sprintf("The field %s must be a string with a maximum length of '%d'.", r.Field, r.Param), nil
		}
	case Email:
		if err := fieldValidate.Var(value, "omitempty,email"); err != nil {
			return fmt.Sprintf("The %s field is not a valid e-mail address.", r.Field), nil
		}
	default:
		return "", fmt.Errorf("validation: unknown constraint %s on %s", r.Kind, r.Field)
	}
	return "", nil
}

// Rules is an ordered list of constraint descriptors over T.
type Rules[T any] []Rule[T]

// Validate evaluates every rule and collects the failures. A rule with an
// unknown kind panics since it is a programming error in the rule table.
func (rs Rules[T]) Validate(v T) Errors {
	errs := Errors{}
	for _, r := range rs {
		msg, err := r.check(r.Value(v))
		if err != nil {
			panic(err)
		}
		if msg != "" {
			errs.Add(r.Field, msg)
		}
	}
	return errs
}

type each[T, E any] struct {
	field string
	items func(T) []E
	inner Validator[E]
}

// Each validates every element returned by items with inner. Failing fields
// are reported as "Field[i].Inner".
func Each[T, E any](field string, items func(T) []E, inner Validator[E]) Validator[T] {
	return each[T, E]{field: field, items: items, inner: inner}
}

func (e each[T, E]) Validate(v T) Errors {
	errs := Errors{}
	for i, item := range e.items(v) {
		errs.Merge(fmt.Sprintf("%s[%d].", e.field, i), e.inner.Validate(item))
	}
	return errs
}

type joined[T any] []Validator[T]

// Join combines validators; the result reports the union of their failures.
func Join[T any](vs ...Validator[T]) Validator[T] {
	return joined[T](vs)
}

func (j joined[T]) Validate(v T) Errors {
	errs := Errors{}
	for _, inner := range j {
		errs.Merge("", inner.Validate(v))
	}
	return errs
}
