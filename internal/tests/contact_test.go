package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func contactFixtures() (*MockContactRepository, *MockUserRepository, *MockChatMessageRepository, *MockNotificationRepository, *service.ContactService) {
	contactRepo := NewMockContactRepository()
	userRepo := NewMockUserRepository()
	chatRepo := NewMockChatMessageRepository()
	notificationRepo := NewMockNotificationRepository()

	userRepo.AddUser(&domain.User{ID: "user-a", Name: "Alice", Role: domain.RolePassenger, VerificationStatus: domain.VerificationVerified})
	userRepo.AddUser(&domain.User{ID: "user-b", Name: "Bruno", Role: domain.RoleDriver, VerificationStatus: domain.VerificationVerified})

	notificationService := service.NewNotificationService(notificationRepo)
	contactService := service.NewContactService(contactRepo, userRepo, chatRepo, notificationService)

	return contactRepo, userRepo, chatRepo, notificationRepo, contactService
}

func TestCreateContact_CreatesAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	contactRepo, _, _, notificationRepo, contactService := contactFixtures()

	result, err := contactService.CreateContact(ctx, service.CreateContactRequest{
		RequesterID:   "user-a",
		CounterpartID: "user-b",
		Score:         1.25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Created {
		t.Fatal("expected a new contact")
	}
	if contactRepo.Count() != 1 {
		t.Fatalf("expected 1 stored contact, got %d", contactRepo.Count())
	}

	// The counterpart was told, the requester was not.
	if n := notificationRepo.ForUser("user-b"); len(n) != 1 {
		t.Fatalf("expected 1 notification for user-b, got %d", len(n))
	}
	if n := notificationRepo.ForUser("user-a"); len(n) != 0 {
		t.Fatalf("expected no notifications for user-a, got %d", len(n))
	}
}

func TestCreateContact_IdempotentAcrossOrderings(t *testing.T) {
	ctx := context.Background()
	contactRepo, _, _, notificationRepo, contactService := contactFixtures()

	first, err := contactService.CreateContact(ctx, service.CreateContactRequest{
		RequesterID:   "user-a",
		CounterpartID: "user-b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same pair from the other side.
	second, err := contactService.CreateContact(ctx, service.CreateContactRequest{
		RequesterID:   "user-b",
		CounterpartID: "user-a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Created {
		t.Fatal("expected the existing contact, not a new one")
	}
	if second.Contact.ID != first.Contact.ID {
		t.Errorf("expected contact %s, got %s", first.Contact.ID, second.Contact.ID)
	}
	if contactRepo.Count() != 1 {
		t.Fatalf("expected 1 stored contact, got %d", contactRepo.Count())
	}

	// No second notification for the repeat request.
	if n := notificationRepo.ForUser("user-b"); len(n) != 1 {
		t.Fatalf("expected 1 notification for user-b, got %d", len(n))
	}
	if n := notificationRepo.ForUser("user-a"); len(n) != 0 {
		t.Fatalf("expected no notifications for user-a, got %d", len(n))
	}
}

func TestCreateContact_SelfContactRejected(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, contactService := contactFixtures()

	_, err := contactService.CreateContact(ctx, service.CreateContactRequest{
		RequesterID:   "user-a",
		CounterpartID: "user-a",
	})
	if !errors.Is(err, service.ErrSelfContact) {
		t.Fatalf("expected ErrSelfContact, got %v", err)
	}
}

func TestCreateContact_LostRaceReturnsExistingRow(t *testing.T) {
	ctx := context.Background()
	contactRepo, _, _, notificationRepo, contactService := contactFixtures()

	// Simulate a concurrent insert winning between FindByPair and Create.
	contactRepo.ConflictContact = &domain.Contact{
		ID:            "contact-raced",
		RequesterID:   "user-b",
		CounterpartID: "user-a",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	result, err := contactService.CreateContact(ctx, service.CreateContactRequest{
		RequesterID:   "user-a",
		CounterpartID: "user-b",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created {
		t.Fatal("expected the raced contact, not a new one")
	}
	if result.Contact.ID != "contact-raced" {
		t.Errorf("expected contact-raced, got %s", result.Contact.ID)
	}
	if n := notificationRepo.ForUser("user-b"); len(n) != 0 {
		t.Fatalf("expected no notification on the losing side, got %d", len(n))
	}
}

func TestGetContact_EnforcesMembership(t *testing.T) {
	ctx := context.Background()
	contactRepo, userRepo, _, _, contactService := contactFixtures()

	userRepo.AddUser(&domain.User{ID: "user-c", Name: "Carla"})
	contactRepo.AddContact(&domain.Contact{
		ID:            "contact-1",
		RequesterID:   "user-a",
		CounterpartID: "user-b",
	})

	if _, err := contactService.GetContact(ctx, "user-a", "contact-1"); err != nil {
		t.Fatalf("member should see the contact: %v", err)
	}

	_, err := contactService.GetContact(ctx, "user-c", "contact-1")
	if !errors.Is(err, service.ErrNotContactMember) {
		t.Fatalf("expected ErrNotContactMember, got %v", err)
	}
}

func TestListConversations_IncludesCounterpartAndLastMessage(t *testing.T) {
	ctx := context.Background()
	contactRepo, _, chatRepo, _, contactService := contactFixtures()

	contactRepo.AddContact(&domain.Contact{
		ID:            "contact-1",
		RequesterID:   "user-a",
		CounterpartID: "user-b",
		UpdatedAt:     time.Now(),
	})

	_ = chatRepo.Create(ctx, &domain.ChatMessage{
		ID:        "msg-1",
		ContactID: "contact-1",
		SenderID:  "user-b",
		Content:   "See you at 7?",
		CreatedAt: time.Now(),
	})

	conversations, err := contactService.ListConversations(ctx, "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations))
	}

	conv := conversations[0]
	if conv.OtherUser == nil || conv.OtherUser.ID != "user-b" {
		t.Errorf("expected counterpart user-b, got %+v", conv.OtherUser)
	}
	if conv.LastMessage == nil || conv.LastMessage.ID != "msg-1" {
		t.Errorf("expected last message msg-1, got %+v", conv.LastMessage)
	}
}

func TestListConversations_EmptyConversationHasNoLastMessage(t *testing.T) {
	ctx := context.Background()
	contactRepo, _, _, _, contactService := contactFixtures()

	contactRepo.AddContact(&domain.Contact{
		ID:            "contact-1",
		RequesterID:   "user-a",
		CounterpartID: "user-b",
	})

	conversations, err := contactService.ListConversations(ctx, "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations))
	}
	if conversations[0].LastMessage != nil {
		t.Errorf("expected no last message, got %+v", conversations[0].LastMessage)
	}
}
