package testutil

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/HerbHall/contactbook/pkg/models"
)

// NewContact returns a Contact with sensible defaults, suitable for test
// fixtures. The email is unique per call. Override fields with options.
func NewContact(opts ...func(*models.Contact)) models.Contact {
	c := models.Contact{
		FirstName: "Test",
		LastName:  "Contact",
		Email:     fmt.Sprintf("test-%s@example.com", uuid.NewString()[:8]),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithName sets the contact's first and last name.
func WithName(first, last string) func(*models.Contact) {
	return func(c *models.Contact) {
		c.FirstName = first
		c.LastName = last
	}
}

// WithEmail sets the contact's email address.
func WithEmail(email string) func(*models.Contact) {
	return func(c *models.Contact) { c.Email = email }
}

// WithID sets an explicit contact id, as used by seed data.
func WithID(id int64) func(*models.Contact) {
	return func(c *models.Contact) { c.ID = id }
}

// WithPhone appends a phone to the contact.
func WithPhone(number, description string) func(*models.Contact) {
	return func(c *models.Contact) {
		c.Phones = append(c.Phones, models.Phone{Number: number, Description: description})
	}
}
