package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HerbHall/contactbook/pkg/models"
)

// ContactRepository provides lifecycle operations on contacts.
type ContactRepository interface {
	// List returns one page of contacts matching q and its pagination
	// metadata. An empty match yields an empty slice, not an error.
	List(ctx context.Context, q ContactQuery) ([]models.Contact, models.PaginationMetadata, error)

	// Get returns a contact with its phones, or ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Contact, error)

	// Create inserts c and its phones in one transaction and fills in the
	// generated ids.
	Create(ctx context.Context, c *models.Contact) error

	// Update replaces the first name, last name and email of c.ID.
	Update(ctx context.Context, c *models.Contact) error

	// Delete removes a contact and, by cascade, its phones.
	Delete(ctx context.Context, id int64) error

	// Seed replaces every contact and phone with contacts, keeping their
	// explicit ids, and resets id sequences.
	Seed(ctx context.Context, contacts []models.Contact) error
}

// Compile-time interface guard.
var _ ContactRepository = (*SQLiteContactRepository)(nil)

// SQLiteContactRepository implements ContactRepository using SQLite.
// The contacts and phones tables must already exist (created by the
// contacts module's migrations).
type SQLiteContactRepository struct {
	store Store
}

// NewSQLiteContactRepository creates a ContactRepository.
func NewSQLiteContactRepository(store Store) *SQLiteContactRepository {
	return &SQLiteContactRepository{store: store}
}

const contactColumns = `id, first_name, last_name, email`

func (r *SQLiteContactRepository) List(ctx context.Context, q ContactQuery) ([]models.Contact, models.PaginationMetadata, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, models.PaginationMetadata{}, err
	}
	db := r.store.DB()
	where, args := q.where()

	var total int
	//nolint:gosec // where uses parameterized placeholders only
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, models.PaginationMetadata{}, fmt.Errorf("count contacts: %w", err)
	}

	meta := models.NewPaginationMetadata(total, q.PageSize, q.PageNumber)

	queryArgs := make([]any, 0, len(args)+2)
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, meta.PageSize, meta.Offset())

	//nolint:gosec // where and order are built from fixed fragments
	query := fmt.Sprintf(
		"SELECT %s FROM contacts WHERE %s ORDER BY %s LIMIT ? OFFSET ?",
		contactColumns, where, q.orderBy(),
	)

	rows, err := db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, models.PaginationMetadata{}, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0, meta.PageSize)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, models.PaginationMetadata{}, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, models.PaginationMetadata{}, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, meta, nil
}

func (r *SQLiteContactRepository) Get(ctx context.Context, id int64) (*models.Contact, error) {
	db := r.store.DB()
	c, err := scanContact(db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}

	phones, err := listPhones(ctx, db, id)
	if err != nil {
		return nil, err
	}
	c.Phones = phones
	return c, nil
}

func (r *SQLiteContactRepository) Create(ctx context.Context, c *models.Contact) error {
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (first_name, last_name, email) VALUES (?, ?, ?)`,
			c.FirstName, c.LastName, c.Email,
		)
		if err != nil {
			return fmt.Errorf("insert contact: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert contact id: %w", err)
		}

		for i := range c.Phones {
			p := &c.Phones[i]
			p.ContactID = id
			res, err := tx.ExecContext(ctx,
				`INSERT INTO phones (number, description, contact_id) VALUES (?, ?, ?)`,
				p.Number, p.Description, id,
			)
			if err != nil {
				return fmt.Errorf("insert phone %d: %w", i, err)
			}
			if p.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("insert phone %d id: %w", i, err)
			}
		}
		c.ID = id
		if c.Phones == nil {
			c.Phones = []models.Phone{}
		}
		return nil
	})
}

func (r *SQLiteContactRepository) Update(ctx context.Context, c *models.Contact) error {
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE contacts SET first_name = ?, last_name = ?, email = ? WHERE id = ?`,
			c.FirstName, c.LastName, c.Email, c.ID,
		)
		if err != nil {
			return fmt.Errorf("update contact %d: %w", c.ID, err)
		}
		return expectOneRow(res)
	})
}

func (r *SQLiteContactRepository) Delete(ctx context.Context, id int64) error {
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete contact %d: %w", id, err)
		}
		return expectOneRow(res)
	})
}

func (r *SQLiteContactRepository) Seed(ctx context.Context, contacts []models.Contact) error {
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			`DELETE FROM phones`,
			`DELETE FROM contacts`,
			`DELETE FROM sqlite_sequence WHERE name IN ('contacts', 'phones')`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("seed: %q: %w", stmt, err)
			}
		}

		for _, c := range contacts {
			if c.ID == 0 {
				return fmt.Errorf("seed contact %q: id is required", c.FullName())
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO contacts (id, first_name, last_name, email) VALUES (?, ?, ?, ?)`,
				c.ID, c.FirstName, c.LastName, c.Email,
			); err != nil {
				return fmt.Errorf("seed contact %d: %w", c.ID, err)
			}
			for _, p := range c.Phones {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO phones (id, number, description, contact_id) VALUES (?, ?, ?, ?)`,
					explicitID(p.ID), p.Number, p.Description, c.ID,
				); err != nil {
					return fmt.Errorf("seed phone %d: %w", p.ID, err)
				}
			}
		}
		return nil
	})
}

// expectOneRow maps an affected-row count other than one to ErrNotFound.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n != 1 {
		return ErrNotFound
	}
	return nil
}

// explicitID lets the store assign an id when none is given.
func explicitID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*models.Contact, error) {
	var c models.Contact
	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
		return nil, err
	}
	return &c, nil
}
