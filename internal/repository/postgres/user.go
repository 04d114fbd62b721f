package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, image_url, role, verification_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var imageURL sql.NullString
	if user.ImageURL != "" {
		imageURL = sql.NullString{String: user.ImageURL, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		imageURL,
		user.Role,
		user.VerificationStatus,
		user.CreatedAt,
	)
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, email, image_url, role, verification_status, created_at
		FROM users WHERE id = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, image_url, role, verification_status, created_at
		FROM users WHERE email = $1
	`
	return r.scanOne(r.q.QueryRowContext(ctx, query, email))
}

// GetAll retrieves all users.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, image_url, role, verification_status, created_at
		FROM users ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var imageURL sql.NullString
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&imageURL,
			&user.Role,
			&user.VerificationStatus,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			user.ImageURL = imageURL.String
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// UpdateVerificationStatus sets the aggregate verification status.
func (r *UserRepository) UpdateVerificationStatus(ctx context.Context, userID string, status domain.VerificationStatus) error {
	query := `UPDATE users SET verification_status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, userID)
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

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var imageURL sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&imageURL,
		&user.Role,
		&user.VerificationStatus,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if imageURL.Valid {
		user.ImageURL = imageURL.String
	}
	return &user, nil
}
