package tests

import (
	"context"
	"errors"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func chatFixtures() (*MockContactRepository, *MockChatMessageRepository, *MockNotificationRepository, *service.ChatService) {
	contactRepo := NewMockContactRepository()
	chatRepo := NewMockChatMessageRepository()
	userRepo := NewMockUserRepository()
	notificationRepo := NewMockNotificationRepository()

	userRepo.AddUser(&domain.User{ID: "user-a", Name: "Alice"})
	userRepo.AddUser(&domain.User{ID: "user-b", Name: "Bruno"})
	contactRepo.AddContact(&domain.Contact{
		ID:            "contact-1",
		RequesterID:   "user-a",
		CounterpartID: "user-b",
	})

	notificationService := service.NewNotificationService(notificationRepo)
	chatService := service.NewChatService(chatRepo, contactRepo, userRepo, notificationService)

	return contactRepo, chatRepo, notificationRepo, chatService
}

func TestSendMessage_PersistsBumpsAndNotifies(t *testing.T) {
	ctx := context.Background()
	contactRepo, chatRepo, notificationRepo, chatService := chatFixtures()

	msg, err := chatService.SendMessage(ctx, "user-a", "contact-1", "Leaving in 10.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" {
		t.Error("expected a message ID")
	}
	if msg.SenderID != "user-a" {
		t.Errorf("expected sender user-a, got %s", msg.SenderID)
	}

	stored, err := chatRepo.ListByContact(ctx, "contact-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}

	// The conversation moved to the top of both members' lists.
	if contactRepo.TouchCallCount != 1 {
		t.Errorf("expected 1 Touch call, got %d", contactRepo.TouchCallCount)
	}

	// Only the other member was notified.
	if n := notificationRepo.ForUser("user-b"); len(n) != 1 {
		t.Fatalf("expected 1 notification for user-b, got %d", len(n))
	}
	if n := notificationRepo.ForUser("user-a"); len(n) != 0 {
		t.Fatalf("expected no notifications for user-a, got %d", len(n))
	}
}

func TestSendMessage_RejectsEmptyContent(t *testing.T) {
	ctx := context.Background()
	_, _, _, chatService := chatFixtures()

	_, err := chatService.SendMessage(ctx, "user-a", "contact-1", "")
	if !errors.Is(err, service.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestSendMessage_RejectsNonMembers(t *testing.T) {
	ctx := context.Background()
	_, _, _, chatService := chatFixtures()

	_, err := chatService.SendMessage(ctx, "user-c", "contact-1", "hello")
	if !errors.Is(err, service.ErrNotContactMember) {
		t.Fatalf("expected ErrNotContactMember, got %v", err)
	}
}

func TestListMessages_RejectsNonMembers(t *testing.T) {
	ctx := context.Background()
	_, _, _, chatService := chatFixtures()

	if _, err := chatService.ListMessages(ctx, "user-b", "contact-1"); err != nil {
		t.Fatalf("member should read messages: %v", err)
	}

	_, err := chatService.ListMessages(ctx, "user-c", "contact-1")
	if !errors.Is(err, service.ErrNotContactMember) {
		t.Fatalf("expected ErrNotContactMember, got %v", err)
	}
}
