package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HerbHall/contactbook/pkg/models"
)

// PhoneRepository provides read access to a contact's phones.
type PhoneRepository interface {
	// ListForContact returns the contact's phones ordered by id, or
	// ErrNotFound when the contact does not exist.
	ListForContact(ctx context.Context, contactID int64) ([]models.Phone, error)

	// Get returns one phone of the contact, or ErrNotFound when either is
	// missing or the phone belongs to another contact.
	Get(ctx context.Context, contactID, phoneID int64) (*models.Phone, error)
}

// Compile-time interface guard.
var _ PhoneRepository = (*SQLitePhoneRepository)(nil)

// SQLitePhoneRepository implements PhoneRepository using SQLite.
type SQLitePhoneRepository struct {
	store Store
}

// NewSQLitePhoneRepository creates a PhoneRepository.
func NewSQLitePhoneRepository(store Store) *SQLitePhoneRepository {
	return &SQLitePhoneRepository{store: store}
}

func (r *SQLitePhoneRepository) ListForContact(ctx context.Context, contactID int64) ([]models.Phone, error) {
	db := r.store.DB()
	if err := contactExists(ctx, db, contactID); err != nil {
		return nil, err
	}
	return listPhones(ctx, db, contactID)
}

func (r *SQLitePhoneRepository) Get(ctx context.Context, contactID, phoneID int64) (*models.Phone, error) {
	var p models.Phone
	err := r.store.DB().QueryRowContext(ctx,
		`SELECT id, number, description, contact_id FROM phones WHERE id = ? AND contact_id = ?`,
		phoneID, contactID,
	).Scan(&p.ID, &p.Number, &p.Description, &p.ContactID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get phone %d of contact %d: %w", phoneID, contactID, err)
	}
	return &p, nil
}

func contactExists(ctx context.Context, q queryer, id int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM contacts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check contact %d: %w", id, err)
	}
	return nil
}

// listPhones returns the phones of a contact ordered by id. The result is
// never nil.
func listPhones(ctx context.Context, q queryer, contactID int64) ([]models.Phone, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, number, description, contact_id FROM phones WHERE contact_id = ? ORDER BY id`,
		contactID,
	)
	if err != nil {
		return nil, fmt.Errorf("list phones of contact %d: %w", contactID, err)
	}
	defer rows.Close()

	phones := []models.Phone{}
	for rows.Next() {
		var p models.Phone
		if err := rows.Scan(&p.ID, &p.Number, &p.Description, &p.ContactID); err != nil {
			return nil, fmt.Errorf("scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate phones: %w", err)
	}
	return phones, nil
}
