package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ChatMessageRepository implements repository.ChatMessageRepository using
// PostgreSQL.
type ChatMessageRepository struct {
	q Querier
}

// NewChatMessageRepository creates a new ChatMessageRepository.
func NewChatMessageRepository(db *sql.DB) *ChatMessageRepository {
	return &ChatMessageRepository{q: db}
}

// Create persists a new message.
func (r *ChatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, contact_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, msg.ID, msg.ContactID, msg.SenderID, msg.Content, msg.CreatedAt)
	return err
}

// ListByContact retrieves a contact's messages, oldest first.
func (r *ChatMessageRepository) ListByContact(ctx context.Context, contactID string) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, contact_id, sender_id, content, created_at
		FROM chat_messages WHERE contact_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ContactID, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// LatestByContact retrieves the newest message of a contact.
func (r *ChatMessageRepository) LatestByContact(ctx context.Context, contactID string) (*domain.ChatMessage, error) {
	query := `
		SELECT id, contact_id, sender_id, content, created_at
		FROM chat_messages WHERE contact_id = $1
		ORDER BY created_at DESC LIMIT 1
	`

	var msg domain.ChatMessage
	err := r.q.QueryRowContext(ctx, query, contactID).Scan(&msg.ID, &msg.ContactID, &msg.SenderID, &msg.Content, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}
