package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RouteRepository implements repository.RouteRepository using PostgreSQL.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new RouteRepository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	query := `
		INSERT INTO routes (id, user_id, name, origin_lat, origin_lng, dest_lat, dest_lng, outbound_at, return_at, polyline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var name sql.NullString
	if route.Name != "" {
		name = sql.NullString{String: route.Name, Valid: true}
	}

	polyline := route.Polyline
	if polyline == "" {
		polyline = domain.NoPolyline
	}

	_, err := r.q.ExecContext(ctx, query,
		route.ID,
		route.UserID,
		name,
		route.OriginLat,
		route.OriginLng,
		route.DestLat,
		route.DestLng,
		route.OutboundAt,
		route.ReturnAt,
		polyline,
		route.CreatedAt,
	)
	return err
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `
		SELECT id, user_id, name, origin_lat, origin_lng, dest_lat, dest_lng, outbound_at, return_at, polyline, created_at
		FROM routes WHERE id = $1
	`

	var route domain.Route
	var name sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&route.ID,
		&route.UserID,
		&name,
		&route.OriginLat,
		&route.OriginLng,
		&route.DestLat,
		&route.DestLng,
		&route.OutboundAt,
		&route.ReturnAt,
		&route.Polyline,
		&route.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if name.Valid {
		route.Name = name.String
	}
	return &route, nil
}

// GetByUser retrieves all routes owned by a user.
func (r *RouteRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Route, error) {
	query := `
		SELECT id, user_id, name, origin_lat, origin_lng, dest_lat, dest_lng, outbound_at, return_at, polyline, created_at
		FROM routes WHERE user_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		var name sql.NullString
		if err := rows.Scan(
			&route.ID,
			&route.UserID,
			&name,
			&route.OriginLat,
			&route.OriginLng,
			&route.DestLat,
			&route.DestLng,
			&route.OutboundAt,
			&route.ReturnAt,
			&route.Polyline,
			&route.CreatedAt,
		); err != nil {
			return nil, err
		}
		if name.Valid {
			route.Name = name.String
		}
		routes = append(routes, &route)
	}
	return routes, rows.Err()
}

// Delete removes a route.
func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM routes WHERE id = $1`, id)
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

// FindCandidates returns routes owned by VERIFIED users of the given role,
// excluding the requester's own routes.
func (r *RouteRepository) FindCandidates(ctx context.Context, excludeUserID string, role domain.Role) ([]*repository.CandidateRoute, error) {
	query := `
		SELECT r.id, r.user_id, r.name, r.origin_lat, r.origin_lng, r.dest_lat, r.dest_lng, r.outbound_at, r.return_at, r.polyline, r.created_at,
		       u.id, u.name, u.email, u.image_url, u.role, u.verification_status, u.created_at
		FROM routes r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id <> $1
		  AND u.role = $2
		  AND u.verification_status = $3
	`

	rows, err := r.q.QueryContext(ctx, query, excludeUserID, role, domain.VerificationVerified)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*repository.CandidateRoute
	for rows.Next() {
		var c repository.CandidateRoute
		var routeName, imageURL sql.NullString
		if err := rows.Scan(
			&c.Route.ID,
			&c.Route.UserID,
			&routeName,
			&c.Route.OriginLat,
			&c.Route.OriginLng,
			&c.Route.DestLat,
			&c.Route.DestLng,
			&c.Route.OutboundAt,
			&c.Route.ReturnAt,
			&c.Route.Polyline,
			&c.Route.CreatedAt,
			&c.Owner.ID,
			&c.Owner.Name,
			&c.Owner.Email,
			&imageURL,
			&c.Owner.Role,
			&c.Owner.VerificationStatus,
			&c.Owner.CreatedAt,
		); err != nil {
			return nil, err
		}
		if routeName.Valid {
			c.Route.Name = routeName.String
		}
		if imageURL.Valid {
			c.Owner.ImageURL = imageURL.String
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}
