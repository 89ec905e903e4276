package contacts

import "github.com/HerbHall/contactbook/pkg/models"

// ContactDto is the wire shape of a contact in lists.
type ContactDto struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
}

// ContactDetailsDto is a contact with its phones.
type ContactDetailsDto struct {
	ContactDto
	Phones []PhoneDto `json:"phones"`
}

// PhoneDto is the wire shape of a phone.
type PhoneDto struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	Description string `json:"description"`
}

// ContactForCreation is the body of POST /api/contacts.
type ContactForCreation struct {
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
	Phones    []PhoneForCreation `json:"phones"`
}

// PhoneForCreation is a phone created together with its contact.
type PhoneForCreation struct {
	Number      string `json:"number"`
	Description string `json:"description"`
}

// ContactForUpdate is the body of PUT /api/contacts/{id}.
type ContactForUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func toContactDto(c models.Contact) ContactDto {
	return ContactDto{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		FullName:  c.FullName(),
	}
}

func toContactDtos(cs []models.Contact) []ContactDto {
	out := make([]ContactDto, 0, len(cs))
	for _, c := range cs {
		out = append(out, toContactDto(c))
	}
	return out
}

func toContactDetailsDto(c models.Contact) ContactDetailsDto {
	return ContactDetailsDto{ContactDto: toContactDto(c), Phones: toPhoneDtos(c.Phones)}
}

func toPhoneDto(p models.Phone) PhoneDto {
	return PhoneDto{ID: p.ID, Number: p.Number, Description: p.Description}
}

func toPhoneDtos(ps []models.Phone) []PhoneDto {
	out := make([]PhoneDto, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPhoneDto(p))
	}
	return out
}

// model maps a creation body to a new contact.
func (c *ContactForCreation) model() models.Contact {
	m := models.Contact{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phones:    make([]models.Phone, 0, len(c.Phones)),
	}
	for _, p := range c.Phones {
		m.Phones = append(m.Phones, models.Phone{Number: p.Number, Description: p.Description})
	}
	return m
}

// model maps an update body onto the contact with id.
func (c *ContactForUpdate) model(id int64) models.Contact {
	return models.Contact{ID: id, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
}
