package repository

import (
	"context"

	"carpool/internal/domain"
)

// CandidateRoute is a route annotated with its owner's public profile,
// as produced by the candidate-pool query.
type CandidateRoute struct {
	Route domain.Route
	Owner domain.User
}

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *domain.Route) error

	// GetByID retrieves a route by ID.
	GetByID(ctx context.Context, id string) (*domain.Route, error)

	// GetByUser retrieves all routes owned by a user.
	GetByUser(ctx context.Context, userID string) ([]*domain.Route, error)

	// Delete removes a route.
	Delete(ctx context.Context, id string) error

	// FindCandidates returns routes owned by VERIFIED users of the given
	// role, excluding routes owned by excludeUserID. The result is the
	// snapshot the matcher ranks; it is already self-exclusive.
	FindCandidates(ctx context.Context, excludeUserID string, role domain.Role) ([]*CandidateRoute, error)
}
