package repository

import (
	"context"

	"carpool/internal/domain"
)

// ContactRepository defines the persistence operations for contacts.
// Implementations must enforce uniqueness of the unordered user pair.
type ContactRepository interface {
	// Create inserts a contact unless one already exists for the pair.
	// Returns true if a new row was inserted.
	Create(ctx context.Context, contact *domain.Contact) (bool, error)

	// GetByID retrieves a contact by ID.
	GetByID(ctx context.Context, id string) (*domain.Contact, error)

	// FindByPair retrieves the contact for an unordered user pair,
	// regardless of which side created it.
	FindByPair(ctx context.Context, userA, userB string) (*domain.Contact, error)

	// GetForUser retrieves contacts where the user is either side,
	// most recently updated first.
	GetForUser(ctx context.Context, userID string) ([]*domain.Contact, error)

	// Touch bumps a contact's updated_at to now.
	Touch(ctx context.Context, id string) error
}
