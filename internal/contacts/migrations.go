package contacts

import (
	"database/sql"
	"fmt"

	"github.com/HerbHall/contactbook/internal/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create contacts table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(fmt.Sprintf(`
					CREATE TABLE contacts (
						id         INTEGER PRIMARY KEY AUTOINCREMENT,
						first_name TEXT NOT NULL CHECK (length(first_name) <= %d),
						last_name  TEXT NOT NULL CHECK (length(last_name) <= %d),
						email      TEXT NOT NULL DEFAULT '' CHECK (length(email) <= %d)
					)`, maxFirstName, maxLastName, maxEmail))
				return err
			},
		},
		{
			Version:     2,
			Description: "create phones table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					fmt.Sprintf(`CREATE TABLE phones (
						id          INTEGER PRIMARY KEY AUTOINCREMENT,
						number      TEXT NOT NULL CHECK (length(number) <= %d),
						description TEXT NOT NULL DEFAULT '',
						contact_id  INTEGER NOT NULL REFERENCES contacts(id) ON DELETE CASCADE
					)`, maxNumber),
					`CREATE INDEX idx_phones_contact_id ON phones(contact_id)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
