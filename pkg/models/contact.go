package models

// Contact is a person in the address book. A Contact owns its phones;
// deleting the contact removes them.
type Contact struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email,omitempty"`
	Phones    []Phone `json:"phones"`
}

// FullName returns the first and last name joined by a space.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Phone is a phone number owned by a contact. ContactID refers to the
// owning contact by id rather than by pointer.
type Phone struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	Description string `json:"description,omitempty"`
	ContactID   int64  `json:"contact_id"`
}
