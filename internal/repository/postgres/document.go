package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// DocumentRepository implements repository.DocumentRepository using
// PostgreSQL.
type DocumentRepository struct {
	q Querier
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{q: db}
}

// NewDocumentRepositoryWithTx creates a document repository using a
// transaction.
func NewDocumentRepositoryWithTx(tx *sql.Tx) *DocumentRepository {
	return &DocumentRepository{q: tx}
}

const documentColumns = `id, user_id, doc_type, file_url, doc_number, expires_at, status, review_note, reviewed_at, created_at`

// Create persists a new submission.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, user_id, doc_type, file_url, doc_number, expires_at, status, review_note, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var number sql.NullString
	if doc.Number != "" {
		number = sql.NullString{String: doc.Number, Valid: true}
	}
	var expiresAt sql.NullTime
	if !doc.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: doc.ExpiresAt, Valid: true}
	}
	var note sql.NullString
	if doc.ReviewNote != "" {
		note = sql.NullString{String: doc.ReviewNote, Valid: true}
	}
	var reviewedAt sql.NullTime
	if !doc.ReviewedAt.IsZero() {
		reviewedAt = sql.NullTime{Time: doc.ReviewedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Type,
		doc.FileURL,
		number,
		expiresAt,
		doc.Status,
		note,
		reviewedAt,
		doc.CreatedAt,
	)
	return err
}

// GetByID retrieves a submission by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// GetByUser retrieves all submissions of a user. Reviewed submissions come
// first, most recent review first; unreviewed ones follow, newest first.
// This is the "latest reviewed wins" ordering the aggregation relies on.
func (r *DocumentRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents WHERE user_id = $1
		ORDER BY reviewed_at DESC NULLS LAST, created_at DESC
	`
	return r.list(ctx, query, userID)
}

// GetPending retrieves all submissions awaiting review, oldest first.
func (r *DocumentRepository) GetPending(ctx context.Context) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents WHERE status = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, domain.ReviewPending)
}

// UpdateReview records a review decision on a submission.
func (r *DocumentRepository) UpdateReview(ctx context.Context, doc *domain.Document) error {
	query := `
		UPDATE documents
		SET status = $1, review_note = $2, reviewed_at = $3
		WHERE id = $4
	`

	var note sql.NullString
	if doc.ReviewNote != "" {
		note = sql.NullString{String: doc.ReviewNote, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query, doc.Status, note, doc.ReviewedAt, doc.ID)
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

func (r *DocumentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Document, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var number, note sql.NullString
	var expiresAt, reviewedAt sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Type,
		&doc.FileURL,
		&number,
		&expiresAt,
		&doc.Status,
		&note,
		&reviewedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if number.Valid {
		doc.Number = number.String
	}
	if expiresAt.Valid {
		doc.ExpiresAt = expiresAt.Time
	}
	if note.Valid {
		doc.ReviewNote = note.String
	}
	if reviewedAt.Valid {
		doc.ReviewedAt = reviewedAt.Time
	}
	return &doc, nil
}
