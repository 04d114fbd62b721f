package repository

import (
	"context"

	"carpool/internal/domain"
)

// NotificationRepository defines the persistence operations for in-app
// notifications.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, n *domain.Notification) error

	// ListByUser retrieves the newest notifications for a user.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, id, userID string) error

	// MarkAllRead marks all of a user's unread notifications as read.
	MarkAllRead(ctx context.Context, userID string) error
}

// AuditLogRepository defines the persistence operations for admin audit
// entries.
type AuditLogRepository interface {
	// Create persists a new audit entry.
	Create(ctx context.Context, entry *domain.AuditLog) error
}
