package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

const notificationListLimit = 20

// NotificationService persists in-app notifications and hands them to the
// delivery channel. Actual delivery (push, email) is an external concern;
// this service records the notification and logs the send.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// NotifyContactRequested tells the counterpart that someone wants to share
// their route.
func (s *NotificationService) NotifyContactRequested(ctx context.Context, contact *domain.Contact, requester *domain.User) {
	s.send(ctx, &domain.Notification{
		UserID:  contact.CounterpartID,
		Title:   "New carpool request",
		Message: fmt.Sprintf("%s wants to share the route with you!", requester.Name),
		Link:    "/dashboard/chat/" + contact.ID,
	})
}

// NotifyNewMessage tells a contact member about a new chat message.
func (s *NotificationService) NotifyNewMessage(ctx context.Context, contactID, recipientID, senderName string) {
	s.send(ctx, &domain.Notification{
		UserID:  recipientID,
		Title:   "New message",
		Message: fmt.Sprintf("%s sent you a message.", senderName),
		Link:    "/dashboard/chat/" + contactID,
	})
}

// NotifyDocumentReviewed tells a user the outcome of a document review.
func (s *NotificationService) NotifyDocumentReviewed(ctx context.Context, userID string, doc *domain.Document, aggregate domain.VerificationStatus) {
	message := fmt.Sprintf("Your document was %s.", doc.Status)
	if aggregate == domain.VerificationVerified {
		message = "Your account is now verified."
	}
	s.send(ctx, &domain.Notification{
		UserID:  userID,
		Title:   "Document review",
		Message: message,
		Link:    "/dashboard/documents",
	})
}

// send persists the notification and logs the delivery hand-off. A failed
// write is logged, not propagated: notifications never fail the triggering
// operation.
func (s *NotificationService) send(ctx context.Context, n *domain.Notification) {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("failed to persist notification for user %s: %v", n.UserID, err)
		return
	}
	log.Printf("[NOTIFICATION] user=%s title=%q", n.UserID, n.Title)
}

// List returns the newest notifications for a user.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.notificationRepo.ListByUser(ctx, userID, notificationListLimit)
}

// MarkRead marks one notification as read, or all of the user's unread
// notifications when id is empty.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if id == "" {
		return s.notificationRepo.MarkAllRead(ctx, userID)
	}
	return s.notificationRepo.MarkRead(ctx, id, userID)
}
