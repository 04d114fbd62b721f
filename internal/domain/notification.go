package domain

import "time"

// Notification is a persisted in-app notification. Delivery beyond storage
// (push, email) is handled outside this service.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}

// AuditLog records an admin action on the document-review surface.
type AuditLog struct {
	ID        string
	AdminID   string
	Action    string
	CreatedAt time.Time
}
