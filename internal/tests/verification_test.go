package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/service"
)

func passengerRequirements() []*domain.DocumentRequirement {
	return service.DefaultRequirementsFor(domain.RolePassenger)
}

func approvedDoc(id, docType string, reviewedAt time.Time) *domain.Document {
	return &domain.Document{
		ID:         id,
		UserID:     "user-1",
		Type:       docType,
		Status:     domain.ReviewApproved,
		ReviewedAt: reviewedAt,
	}
}

func TestDefaultRequirementsFor(t *testing.T) {
	passenger := service.DefaultRequirementsFor(domain.RolePassenger)
	if len(passenger) != 2 {
		t.Fatalf("expected 2 passenger requirements, got %d", len(passenger))
	}

	driver := service.DefaultRequirementsFor(domain.RoleDriver)
	if len(driver) != 3 {
		t.Fatalf("expected 3 driver requirements, got %d", len(driver))
	}
	if driver[2].Type != domain.DocTypeDriverLicense {
		t.Errorf("expected driver's license requirement, got %s", driver[2].Type)
	}

	if admin := service.DefaultRequirementsFor(domain.RoleAdmin); admin != nil {
		t.Errorf("expected no admin requirements, got %d", len(admin))
	}
}

func TestComputeAggregateStatus_AllApprovedIsVerified(t *testing.T) {
	now := time.Now()
	docs := []*domain.Document{
		approvedDoc("doc-1", domain.DocTypeGuardianID, now),
	}
	// The child document review is the one being acted upon.
	reviewed := approvedDoc("doc-2", domain.DocTypeChildID, now)

	got := service.ComputeAggregateStatus(passengerRequirements(), docs, reviewed)
	if got != domain.VerificationVerified {
		t.Errorf("expected VERIFIED, got %s", got)
	}
}

func TestComputeAggregateStatus_AnyRejectionWins(t *testing.T) {
	now := time.Now()
	docs := []*domain.Document{
		approvedDoc("doc-1", domain.DocTypeGuardianID, now),
	}
	reviewed := &domain.Document{
		ID:         "doc-2",
		Type:       domain.DocTypeChildID,
		Status:     domain.ReviewRejected,
		ReviewedAt: now,
	}

	got := service.ComputeAggregateStatus(passengerRequirements(), docs, reviewed)
	if got != domain.VerificationRejected {
		t.Errorf("expected REJECTED, got %s", got)
	}
}

func TestComputeAggregateStatus_MissingTypeIsPending(t *testing.T) {
	now := time.Now()
	// Only the guardian ID exists; the child document was never submitted.
	reviewed := approvedDoc("doc-1", domain.DocTypeGuardianID, now)

	got := service.ComputeAggregateStatus(passengerRequirements(), nil, reviewed)
	if got != domain.VerificationPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestComputeAggregateStatus_PendingTypeIsPending(t *testing.T) {
	now := time.Now()
	docs := []*domain.Document{
		{ID: "doc-2", Type: domain.DocTypeChildID, Status: domain.ReviewPending},
	}
	reviewed := approvedDoc("doc-1", domain.DocTypeGuardianID, now)

	got := service.ComputeAggregateStatus(passengerRequirements(), docs, reviewed)
	if got != domain.VerificationPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestComputeAggregateStatus_LatestReviewOfTypeWins(t *testing.T) {
	now := time.Now()
	// Two guardian ID submissions: the newer one rejected. docs arrive most
	// recently reviewed first.
	docs := []*domain.Document{
		{ID: "doc-new", Type: domain.DocTypeGuardianID, Status: domain.ReviewRejected, ReviewNote: "illegible", ReviewedAt: now},
		approvedDoc("doc-old", domain.DocTypeGuardianID, now.Add(-time.Hour)),
		approvedDoc("doc-child", domain.DocTypeChildID, now.Add(-time.Hour)),
	}

	got := service.ComputeAggregateStatus(passengerRequirements(), docs, nil)
	if got != domain.VerificationRejected {
		t.Errorf("expected REJECTED, got %s", got)
	}
}

func TestComputeAggregateStatus_ActedUponDocumentOverridesStoredRow(t *testing.T) {
	now := time.Now()
	// The stored row still says PENDING; the in-flight review approves it.
	docs := []*domain.Document{
		{ID: "doc-1", Type: domain.DocTypeGuardianID, Status: domain.ReviewPending},
		approvedDoc("doc-2", domain.DocTypeChildID, now),
	}
	reviewed := approvedDoc("doc-1", domain.DocTypeGuardianID, now)

	got := service.ComputeAggregateStatus(passengerRequirements(), docs, reviewed)
	if got != domain.VerificationVerified {
		t.Errorf("expected VERIFIED, got %s", got)
	}
}

func TestComputeAggregateStatus_EmptyRequirementsIsPending(t *testing.T) {
	got := service.ComputeAggregateStatus(nil, nil, nil)
	if got != domain.VerificationPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestStatusAfterSubmission(t *testing.T) {
	cases := []struct {
		current domain.VerificationStatus
		want    domain.VerificationStatus
	}{
		{domain.VerificationRejected, domain.VerificationPending},
		{domain.VerificationPending, domain.VerificationPending},
		{domain.VerificationVerified, domain.VerificationVerified},
	}

	for _, tc := range cases {
		if got := service.StatusAfterSubmission(tc.current); got != tc.want {
			t.Errorf("StatusAfterSubmission(%s) = %s, want %s", tc.current, got, tc.want)
		}
	}
}

func newVerificationService(
	userRepo *MockUserRepository,
	documentRepo *MockDocumentRepository,
	requirementRepo *MockRequirementRepository,
	lockStore *MockLockStore,
) *service.VerificationService {
	return service.NewVerificationService(nil, userRepo, documentRepo, requirementRepo, lockStore, nil, nil)
}

func TestReviewDocument_RejectionRequiresNote(t *testing.T) {
	ctx := context.Background()
	svc := newVerificationService(NewMockUserRepository(), NewMockDocumentRepository(), NewMockRequirementRepository(), NewMockLockStore())

	_, err := svc.ReviewDocument(ctx, service.ReviewRequest{
		DocumentID: "doc-1",
		AdminID:    "admin-1",
		Status:     domain.ReviewRejected,
	})
	if !errors.Is(err, service.ErrReviewNoteRequired) {
		t.Fatalf("expected ErrReviewNoteRequired, got %v", err)
	}
}

func TestReviewDocument_RejectsInvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc := newVerificationService(NewMockUserRepository(), NewMockDocumentRepository(), NewMockRequirementRepository(), NewMockLockStore())

	_, err := svc.ReviewDocument(ctx, service.ReviewRequest{
		DocumentID: "doc-1",
		AdminID:    "admin-1",
		Status:     domain.ReviewPending,
	})
	if !errors.Is(err, service.ErrInvalidReviewStatus) {
		t.Fatalf("expected ErrInvalidReviewStatus, got %v", err)
	}
}

func TestReviewDocument_ConcurrentReviewConflicts(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	documentRepo := NewMockDocumentRepository()
	lockStore := NewMockLockStore()

	userRepo.AddUser(&domain.User{
		ID:                 "user-1",
		Role:               domain.RolePassenger,
		VerificationStatus: domain.VerificationPending,
	})
	documentRepo.AddDocument(&domain.Document{
		ID:     "doc-1",
		UserID: "user-1",
		Type:   domain.DocTypeGuardianID,
		Status: domain.ReviewPending,
	})

	// Another admin already holds the review lock for this user.
	lockStore.HoldLock("user-1")

	svc := newVerificationService(userRepo, documentRepo, NewMockRequirementRepository(), lockStore)

	_, err := svc.ReviewDocument(ctx, service.ReviewRequest{
		DocumentID: "doc-1",
		AdminID:    "admin-1",
		Status:     domain.ReviewApproved,
	})
	if !errors.Is(err, service.ErrReviewInProgress) {
		t.Fatalf("expected ErrReviewInProgress, got %v", err)
	}
}

func TestReviewDocument_AdminDocumentsNotReviewable(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	documentRepo := NewMockDocumentRepository()

	userRepo.AddUser(&domain.User{ID: "admin-2", Role: domain.RoleAdmin})
	documentRepo.AddDocument(&domain.Document{
		ID:     "doc-1",
		UserID: "admin-2",
		Type:   domain.DocTypeGuardianID,
		Status: domain.ReviewPending,
	})

	svc := newVerificationService(userRepo, documentRepo, NewMockRequirementRepository(), NewMockLockStore())

	_, err := svc.ReviewDocument(ctx, service.ReviewRequest{
		DocumentID: "doc-1",
		AdminID:    "admin-1",
		Status:     domain.ReviewApproved,
	})
	if !errors.Is(err, service.ErrAdminNotReviewable) {
		t.Fatalf("expected ErrAdminNotReviewable, got %v", err)
	}
}

func TestCatalogForRole_FallsBackToDefaults(t *testing.T) {
	ctx := context.Background()

	// No configured rows; the hardcoded defaults apply.
	svc := newVerificationService(NewMockUserRepository(), NewMockDocumentRepository(), NewMockRequirementRepository(), NewMockLockStore())

	reqs, err := svc.CatalogForRole(ctx, domain.RoleDriver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 3 {
		t.Fatalf("expected 3 default driver requirements, got %d", len(reqs))
	}
}

func TestCatalogForRole_PrefersConfiguredRows(t *testing.T) {
	ctx := context.Background()

	requirementRepo := NewMockRequirementRepository()
	requirementRepo.SetRequirements([]*domain.DocumentRequirement{
		{ID: "req-1", Role: domain.RolePassenger, Type: "CUSTOM_DOC", Label: "Custom", Active: true, Order: 1},
		{ID: "req-2", Role: domain.RolePassenger, Type: "INACTIVE_DOC", Label: "Inactive", Active: false, Order: 2},
		{ID: "req-3", Role: domain.RoleDriver, Type: "OTHER_ROLE", Label: "Other", Active: true, Order: 1},
	})

	svc := newVerificationService(NewMockUserRepository(), NewMockDocumentRepository(), requirementRepo, NewMockLockStore())

	reqs, err := svc.CatalogForRole(ctx, domain.RolePassenger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("expected 1 active passenger requirement, got %d", len(reqs))
	}
	if reqs[0].Type != "CUSTOM_DOC" {
		t.Errorf("expected CUSTOM_DOC, got %s", reqs[0].Type)
	}
}
