package repository

import (
	"context"

	"carpool/internal/domain"
)

// ChatMessageRepository defines the persistence operations for chat messages.
type ChatMessageRepository interface {
	// Create persists a new message.
	Create(ctx context.Context, msg *domain.ChatMessage) error

	// ListByContact retrieves a contact's messages, oldest first.
	ListByContact(ctx context.Context, contactID string) ([]*domain.ChatMessage, error)

	// LatestByContact retrieves the newest message of a contact, or
	// ErrNotFound when the conversation is empty.
	LatestByContact(ctx context.Context, contactID string) (*domain.ChatMessage, error)
}
