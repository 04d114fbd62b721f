package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// ContactService turns a chosen match into a durable contact exactly once.
type ContactService struct {
	contactRepo  repository.ContactRepository
	userRepo     repository.UserRepository
	chatRepo     repository.ChatMessageRepository
	notification *NotificationService
}

// NewContactService creates a new ContactService.
func NewContactService(
	contactRepo repository.ContactRepository,
	userRepo repository.UserRepository,
	chatRepo repository.ChatMessageRepository,
	notification *NotificationService,
) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		userRepo:     userRepo,
		chatRepo:     chatRepo,
		notification: notification,
	}
}

// CreateContactRequest contains the parameters for opening a contact.
type CreateContactRequest struct {
	RequesterID   string
	CounterpartID string
	Score         float64
}

// CreateContactResult contains the contact and whether it was just created.
type CreateContactResult struct {
	Contact *domain.Contact
	Created bool
}

// CreateContact finds or creates the contact for the unordered pair.
// Repeated requests, from either side, converge on the same contact; only a
// genuinely new contact notifies the counterpart. "Already exists" is a
// success path, which absorbs double submissions from racing UI clicks.
func (s *ContactService) CreateContact(ctx context.Context, req CreateContactRequest) (*CreateContactResult, error) {
	if req.RequesterID == "" || req.CounterpartID == "" {
		return nil, ErrInvalidUserID
	}
	if req.RequesterID == req.CounterpartID {
		return nil, ErrSelfContact
	}

	requester, err := s.userRepo.GetByID(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, req.CounterpartID); err != nil {
		return nil, err
	}

	if existing, err := s.contactRepo.FindByPair(ctx, req.RequesterID, req.CounterpartID); err == nil {
		return &CreateContactResult{Contact: existing, Created: false}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	contact := &domain.Contact{
		ID:            uuid.New().String(),
		RequesterID:   req.RequesterID,
		CounterpartID: req.CounterpartID,
		Score:         req.Score,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return nil, err
	}
	if !created {
		// Lost the race against a concurrent request for the same pair;
		// the storage-level pair constraint kept a single row. Re-read it.
		existing, err := s.contactRepo.FindByPair(ctx, req.RequesterID, req.CounterpartID)
		if err != nil {
			return nil, err
		}
		return &CreateContactResult{Contact: existing, Created: false}, nil
	}

	s.notification.NotifyContactRequested(ctx, contact, requester)

	return &CreateContactResult{Contact: contact, Created: true}, nil
}

// GetContact returns a contact, enforcing membership.
func (s *ContactService) GetContact(ctx context.Context, userID, contactID string) (*domain.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if !contact.HasMember(userID) {
		return nil, ErrNotContactMember
	}
	return contact, nil
}

// Conversation is one entry of a user's contact list.
type Conversation struct {
	Contact     *domain.Contact
	OtherUser   *domain.User
	LastMessage *domain.ChatMessage
}

// ListConversations returns the user's contacts, most recently active first,
// each annotated with the counterpart profile and the latest message.
func (s *ContactService) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	contacts, err := s.contactRepo.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]*Conversation, 0, len(contacts))
	for _, contact := range contacts {
		other, err := s.userRepo.GetByID(ctx, contact.Other(userID))
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		last, err := s.chatRepo.LatestByContact(ctx, contact.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		conversations = append(conversations, &Conversation{
			Contact:     contact,
			OtherUser:   other,
			LastMessage: last,
		})
	}
	return conversations, nil
}
