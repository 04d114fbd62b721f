package postgres

import (
	"context"
	"database/sql"

	"carpool/internal/domain"
)

// RequirementRepository implements repository.RequirementRepository using
// PostgreSQL.
type RequirementRepository struct {
	db *sql.DB
}

// NewRequirementRepository creates a new RequirementRepository.
func NewRequirementRepository(db *sql.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

const requirementColumns = `id, role, doc_type, label, description, active, sort_order`

// GetActiveForRole retrieves active requirements for a role, in order.
func (r *RequirementRepository) GetActiveForRole(ctx context.Context, role domain.Role) ([]*domain.DocumentRequirement, error) {
	query := `
		SELECT ` + requirementColumns + `
		FROM document_requirements
		WHERE role = $1 AND active = TRUE
		ORDER BY sort_order ASC
	`
	return r.list(ctx, query, role)
}

// GetAll retrieves the full catalog, grouped by role and ordered.
func (r *RequirementRepository) GetAll(ctx context.Context) ([]*domain.DocumentRequirement, error) {
	query := `
		SELECT ` + requirementColumns + `
		FROM document_requirements
		ORDER BY role ASC, sort_order ASC
	`
	return r.list(ctx, query)
}

// ReplaceAll atomically replaces the whole catalog.
func (r *RequirementRepository) ReplaceAll(ctx context.Context, reqs []*domain.DocumentRequirement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM document_requirements`); err != nil {
		return err
	}

	insert := `
		INSERT INTO document_requirements (id, role, doc_type, label, description, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, req := range reqs {
		var description sql.NullString
		if req.Description != "" {
			description = sql.NullString{String: req.Description, Valid: true}
		}
		if _, err = tx.ExecContext(ctx, insert,
			req.ID, req.Role, req.Type, req.Label, description, req.Active, req.Order,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *RequirementRepository) list(ctx context.Context, query string, args ...any) ([]*domain.DocumentRequirement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.DocumentRequirement
	for rows.Next() {
		var req domain.DocumentRequirement
		var description sql.NullString
		if err := rows.Scan(
			&req.ID,
			&req.Role,
			&req.Type,
			&req.Label,
			&description,
			&req.Active,
			&req.Order,
		); err != nil {
			return nil, err
		}
		if description.Valid {
			req.Description = description.String
		}
		reqs = append(reqs, &req)
	}
	return reqs, rows.Err()
}
