package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ChatService handles messaging inside a contact.
type ChatService struct {
	chatRepo     repository.ChatMessageRepository
	contactRepo  repository.ContactRepository
	userRepo     repository.UserRepository
	notification *NotificationService
}

// NewChatService creates a new ChatService.
func NewChatService(
	chatRepo repository.ChatMessageRepository,
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	notification *NotificationService,
) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		contactRepo:  contactRepo,
		userRepo:     userRepo,
		notification: notification,
	}
}

// SendMessage persists a message from senderID into the contact, bumps the
// contact's activity timestamp and notifies the other member.
func (s *ChatService) SendMessage(ctx context.Context, senderID, contactID, content string) (*domain.ChatMessage, error) {
	if senderID == "" {
		return nil, ErrInvalidUserID
	}
	if content == "" {
		return nil, ErrEmptyMessage
	}

	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.HasMember(senderID) {
		return nil, ErrNotContactMember
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		ContactID: contactID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	// Bring the conversation to the top of both members' lists.
	if err := s.contactRepo.Touch(ctx, contactID); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err == nil {
		s.notification.NotifyNewMessage(ctx, contactID, contact.Other(senderID), sender.Name)
	}

	return msg, nil
}

// ListMessages returns a contact's messages, oldest first, enforcing
// membership.
func (s *ChatService) ListMessages(ctx context.Context, userID, contactID string) ([]*domain.ChatMessage, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.HasMember(userID) {
		return nil, ErrNotContactMember
	}

	return s.chatRepo.ListByContact(ctx, contactID)
}
