package contacts

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/HerbHall/contactbook/pkg/models"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Contacts []struct {
		ID        int64  `yaml:"id"`
		FirstName string `yaml:"firstName"`
		LastName  string `yaml:"lastName"`
		Email     string `yaml:"email"`
		Phones    []struct {
			ID          int64  `yaml:"id"`
			Number      string `yaml:"number"`
			Description string `yaml:"description"`
		} `yaml:"phones"`
	} `yaml:"contacts"`
}

// parseSeed decodes demo contacts from YAML.
func parseSeed(data []byte) ([]models.Contact, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	out := make([]models.Contact, 0, len(f.Contacts))
	for _, sc := range f.Contacts {
		c := models.Contact{
			ID:        sc.ID,
			FirstName: sc.FirstName,
			LastName:  sc.LastName,
			Email:     sc.Email,
			Phones:    make([]models.Phone, 0, len(sc.Phones)),
		}
		for _, sp := range sc.Phones {
			c.Phones = append(c.Phones, models.Phone{
				ID:          sp.ID,
				Number:      sp.Number,
				Description: sp.Description,
				ContactID:   sc.ID,
			})
		}
		out = append(out, c)
	}
	return out, nil
}

// DemoContacts returns the built-in demo data.
func DemoContacts() ([]models.Contact, error) {
	return parseSeed(seedYAML)
}
