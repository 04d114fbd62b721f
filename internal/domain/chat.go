package domain

import "time"

// ChatMessage is a message exchanged inside a contact.
type ChatMessage struct {
	ID        string
	ContactID string
	SenderID  string
	Content   string
	CreatedAt time.Time
}
