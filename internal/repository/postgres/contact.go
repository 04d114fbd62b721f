package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
//
// Pair uniqueness relies on a unique expression index over the canonical
// ordering of the two member ids:
//
//	CREATE UNIQUE INDEX contacts_pair_idx ON contacts
//	    (LEAST(requester_id, counterpart_id), GREATEST(requester_id, counterpart_id));
type ContactRepository struct {
	q Querier
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{q: db}
}

const contactColumns = `id, requester_id, counterpart_id, score, created_at, updated_at`

// Create inserts a contact unless one already exists for the unordered pair.
// Returns true if a new row was inserted.
func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (bool, error) {
	query := `
		INSERT INTO contacts (id, requester_id, counterpart_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (LEAST(requester_id, counterpart_id), GREATEST(requester_id, counterpart_id))
		DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		contact.ID,
		contact.RequesterID,
		contact.CounterpartID,
		contact.Score,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// GetByID retrieves a contact by ID.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByPair retrieves the contact for an unordered user pair.
func (r *ContactRepository) FindByPair(ctx context.Context, userA, userB string) (*domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE (requester_id = $1 AND counterpart_id = $2)
		   OR (requester_id = $2 AND counterpart_id = $1)
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, userA, userB))
}

// GetForUser retrieves contacts where the user is either side, most recently
// updated first.
func (r *ContactRepository) GetForUser(ctx context.Context, userID string) ([]*domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE requester_id = $1 OR counterpart_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.RequesterID, &c.CounterpartID, &c.Score, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

// Touch bumps a contact's updated_at to now.
func (r *ContactRepository) Touch(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `UPDATE contacts SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) scanOne(row *sql.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.RequesterID, &c.CounterpartID, &c.Score, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
