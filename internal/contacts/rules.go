package contacts

import "github.com/HerbHall/contactbook/internal/validation"

// Column limits shared by validation and the schema.
const (
	maxFirstName = 32
	maxLastName  = 64
	maxEmail     = 128
	maxNumber    = 16
)

var phoneRules = validation.Rules[PhoneForCreation]{
	{Field: "Number", Kind: validation.Required, Value: func(p PhoneForCreation) string { return p.Number }},
	{Field: "Number", Kind: validation.MaxLength, Param: maxNumber, Value: func(p PhoneForCreation) string { return p.Number }},
}

// CreationRules validates POST bodies, including nested phones.
var CreationRules = validation.Join[*ContactForCreation](
	validation.Rules[*ContactForCreation]{
		{Field: "FirstName", Kind: validation.Required, Value: func(c *ContactForCreation) string { return c.FirstName }},
		{Field: "FirstName", Kind: validation.MaxLength, Param: maxFirstName, Value: func(c *ContactForCreation) string { return c.FirstName }},
		{Field: "LastName", Kind: validation.Required, Value: func(c *ContactForCreation) string { return c.LastName }},
		{Field: "LastName", Kind: validation.MaxLength, Param: maxLastName, Value: func(c *ContactForCreation) string { return c.LastName }},
		{Field: "Email", Kind: validation.Email, Value: func(c *ContactForCreation) string { return c.Email }},
		{Field: "Email", Kind: validation.MaxLength, Param: maxEmail, Value: func(c *ContactForCreation) string { return c.Email }},
	},
	validation.Each("Phones", func(c *ContactForCreation) []PhoneForCreation { return c.Phones }, validation.Validator[PhoneForCreation](phoneRules)),
)

// UpdateRules validates PUT bodies.
var UpdateRules = validation.Rules[*ContactForUpdate]{
	{Field: "FirstName", Kind: validation.Required, Value: func(c *ContactForUpdate) string { return c.FirstName }},
	{Field: "FirstName", Kind: validation.MaxLength, Param: maxFirstName, Value: func(c *ContactForUpdate) string { return c.FirstName }},
	{Field: "LastName", Kind: validation.Required, Value: func(c *ContactForUpdate) string { return c.LastName }},
	{Field: "LastName", Kind: validation.MaxLength, Param: maxLastName, Value: func(c *ContactForUpdate) string { return c.LastName }},
	{Field: "Email", Kind: validation.Email, Value: func(c *ContactForUpdate) string { return c.Email }},
	{Field: "Email", Kind: validation.MaxLength, Param: maxEmail, Value: func(c *ContactForUpdate) string { return c.Email }},
}
