package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func TestNotificationSendFailureDoesNotPropagate(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	notificationRepo.CreateError = errors.New("storage down")
	notificationService := service.NewNotificationService(notificationRepo)

	// Storage failure on the notification must not surface to the caller.
	notificationService.NotifyNewMessage(ctx, "contact-1", "user-b", "Alice")

	if n := notificationRepo.ForUser("user-b"); len(n) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(n))
	}
}

func TestNotificationList_ReturnsNewestTwenty(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	notificationService := service.NewNotificationService(notificationRepo)

	for i := 0; i < 25; i++ {
		_ = notificationRepo.Create(ctx, &domain.Notification{
			ID:     fmt.Sprintf("n-%d", i),
			UserID: "user-a",
			Title:  "Title",
		})
	}

	list, err := notificationService.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 20 {
		t.Fatalf("expected 20 notifications, got %d", len(list))
	}
	if list[0].ID != "n-24" {
		t.Errorf("expected newest first, got %s", list[0].ID)
	}
}

func TestMarkRead_EmptyIDMarksAll(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	notificationService := service.NewNotificationService(notificationRepo)

	_ = notificationRepo.Create(ctx, &domain.Notification{ID: "n-1", UserID: "user-a"})
	_ = notificationRepo.Create(ctx, &domain.Notification{ID: "n-2", UserID: "user-a"})

	if err := notificationService.MarkRead(ctx, "user-a", "n-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := notificationRepo.ForUser("user-a")
	if !stored[0].Read || stored[1].Read {
		t.Error("expected only n-1 marked read")
	}

	if err := notificationService.MarkRead(ctx, "user-a", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notificationRepo.MarkAllReadCallCount != 1 {
		t.Errorf("expected MarkAllRead to be called once, got %d", notificationRepo.MarkAllReadCallCount)
	}
	for _, n := range notificationRepo.ForUser("user-a") {
		if !n.Read {
			t.Errorf("expected %s to be read", n.ID)
		}
	}
}

func TestVerifiedAggregateChangesNotificationMessage(t *testing.T) {
	ctx := context.Background()

	notificationRepo := NewMockNotificationRepository()
	notificationService := service.NewNotificationService(notificationRepo)

	doc := &domain.Document{ID: "doc-1", Type: domain.DocTypeGuardianID, Status: domain.ReviewApproved}

	notificationService.NotifyDocumentReviewed(ctx, "user-a", doc, domain.VerificationPending)
	notificationService.NotifyDocumentReviewed(ctx, "user-a", doc, domain.VerificationVerified)

	stored := notificationRepo.ForUser("user-a")
	if len(stored) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(stored))
	}
	if stored[1].Message != "Your account is now verified." {
		t.Errorf("unexpected verified message: %q", stored[1].Message)
	}
	if stored[0].Message == stored[1].Message {
		t.Error("expected distinct messages for pending and verified aggregates")
	}
}
