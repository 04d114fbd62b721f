package repository

import (
	"context"

	"carpool/internal/domain"
)

// DocumentRepository defines the persistence operations for document
// submissions.
type DocumentRepository interface {
	// Create persists a new submission.
	Create(ctx context.Context, doc *domain.Document) error

	// GetByID retrieves a submission by ID.
	GetByID(ctx context.Context, id string) (*domain.Document, error)

	// GetByUser retrieves all submissions of a user, most recently
	// reviewed first (unreviewed submissions last, newest first).
	GetByUser(ctx context.Context, userID string) ([]*domain.Document, error)

	// GetPending retrieves all submissions awaiting review.
	GetPending(ctx context.Context) ([]*domain.Document, error)

	// UpdateReview records a review decision on a submission.
	UpdateReview(ctx context.Context, doc *domain.Document) error
}

// RequirementRepository defines the persistence operations for the
// per-role document requirement catalog.
type RequirementRepository interface {
	// GetActiveForRole retrieves active requirements for a role, in order.
	GetActiveForRole(ctx context.Context, role domain.Role) ([]*domain.DocumentRequirement, error)

	// GetAll retrieves the full catalog, grouped by role and ordered.
	GetAll(ctx context.Context) ([]*domain.DocumentRequirement, error)

	// ReplaceAll atomically replaces the whole catalog.
	ReplaceAll(ctx context.Context, reqs []*domain.DocumentRequirement) error
}
