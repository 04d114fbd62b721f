package postgres

import (
	"context"
	"database/sql"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// NotificationRepository implements repository.NotificationRepository using
// PostgreSQL.
type NotificationRepository struct {
	q Querier
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{q: db}
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, link, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var link sql.NullString
	if n.Link != "" {
		link = sql.NullString{String: n.Link, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Message, link, n.Read, n.CreatedAt)
	return err
}

// ListByUser retrieves the newest notifications for a user.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, title, message, link, read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`

	rows, err := r.q.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var link sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &link, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if link.Valid {
			n.Link = link.String
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead marks one notification as read. The user filter keeps a user from
// acknowledging someone else's notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.q.ExecContext(ctx, query, id, userID)
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

// MarkAllRead marks all of a user's unread notifications as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`
	_, err := r.q.ExecContext(ctx, query, userID)
	return err
}

// AuditLogRepository implements repository.AuditLogRepository using
// PostgreSQL.
type AuditLogRepository struct {
	q Querier
}

// NewAuditLogRepository creates a new AuditLogRepository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{q: db}
}

// NewAuditLogRepositoryWithTx creates an audit log repository using a
// transaction.
func NewAuditLogRepositoryWithTx(tx *sql.Tx) *AuditLogRepository {
	return &AuditLogRepository{q: tx}
}

// Create persists a new audit entry.
func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (id, admin_id, action, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.q.ExecContext(ctx, query, entry.ID, entry.AdminID, entry.Action, entry.CreatedAt)
	return err
}
