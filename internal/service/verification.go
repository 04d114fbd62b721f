package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository"
	"carpool/internal/repository/postgres"
)

const reviewLockTTL = 10 * time.Second

// VerificationService owns the aggregate VerificationStatus on users. It is
// the only code path allowed to write that field: the status is a
// materialized view over document submissions, recomputed on every review
// and reset on resubmission after rejection.
type VerificationService struct {
	db              *sql.DB
	userRepo        repository.UserRepository
	documentRepo    repository.DocumentRepository
	requirementRepo repository.RequirementRepository
	lockStore       internalRedis.LockStoreInterface
	cacheStore      *internalRedis.CacheStore
	notification    *NotificationService
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(
	db *sql.DB,
	userRepo repository.UserRepository,
	documentRepo repository.DocumentRepository,
	requirementRepo repository.RequirementRepository,
	lockStore internalRedis.LockStoreInterface,
	cacheStore *internalRedis.CacheStore,
	notification *NotificationService,
) *VerificationService {
	return &VerificationService{
		db:              db,
		userRepo:        userRepo,
		documentRepo:    documentRepo,
		requirementRepo: requirementRepo,
		lockStore:       lockStore,
		cacheStore:      cacheStore,
		notification:    notification,
	}
}

// DefaultRequirementsFor is the single authoritative fallback catalog used
// when no active requirement rows exist for a role. Every non-admin role
// requires a guardian identity document and the child's document; drivers
// additionally require a driver's license.
func DefaultRequirementsFor(role domain.Role) []*domain.DocumentRequirement {
	if role == domain.RoleAdmin {
		return nil
	}

	reqs := []*domain.DocumentRequirement{
		{Role: role, Type: domain.DocTypeGuardianID, Label: "Guardian ID", Description: "National ID, driver's license or passport", Active: true, Order: 1},
		{Role: role, Type: domain.DocTypeChildID, Label: "Child document", Description: "Birth certificate or ID of the minor", Active: true, Order: 2},
	}
	if role == domain.RoleDriver {
		reqs = append(reqs, &domain.DocumentRequirement{
			Role: role, Type: domain.DocTypeDriverLicense, Label: "Driver's license", Description: "Valid driver's license", Active: true, Order: 3,
		})
	}
	return reqs
}

// ReviewRequest contains the parameters for reviewing a document.
type ReviewRequest struct {
	DocumentID string
	AdminID    string
	Status     domain.ReviewStatus
	Note       string
}

// ReviewResult contains the reviewed document and the recomputed aggregate.
type ReviewResult struct {
	Document        *domain.Document
	AggregateStatus domain.VerificationStatus
}

// ReviewDocument applies a review decision and recomputes the owner's
// aggregate status. The document write, the user write and the audit entry
// commit as one transaction.
func (s *VerificationService) ReviewDocument(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	if req.DocumentID == "" {
		return nil, ErrInvalidDocumentID
	}
	if req.Status != domain.ReviewApproved && req.Status != domain.ReviewRejected {
		return nil, ErrInvalidReviewStatus
	}
	if req.Status == domain.ReviewRejected && req.Note == "" {
		return nil, ErrReviewNoteRequired
	}

	doc, err := s.documentRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, doc.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, ErrAdminNotReviewable
	}

	// Serialize reviews per user so two admins cannot interleave the
	// document write and the aggregate recomputation.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireReviewLock(ctx, user.ID, reviewLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrReviewInProgress
		}
		defer func() { _ = s.lockStore.ReleaseReviewLock(ctx, user.ID) }()
	}

	reqs, err := s.requirementsForRole(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	doc.Status = req.Status
	doc.ReviewNote = req.Note
	doc.ReviewedAt = time.Now()

	aggregate := ComputeAggregateStatus(reqs, docs, doc)

	if err := s.applyReview(ctx, req.AdminID, doc, user.ID, aggregate); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateProfile(ctx, user.ID)
	}

	if s.notification != nil {
		s.notification.NotifyDocumentReviewed(ctx, user.ID, doc, aggregate)
	}

	return &ReviewResult{Document: doc, AggregateStatus: aggregate}, nil
}

// applyReview commits the review decision, the recomputed aggregate and the
// audit entry atomically.
func (s *VerificationService) applyReview(ctx context.Context, adminID string, doc *domain.Document, userID string, aggregate domain.VerificationStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txDocRepo := postgres.NewDocumentRepositoryWithTx(tx)
	txUserRepo := postgres.NewUserRepositoryWithTx(tx)
	txAuditRepo := postgres.NewAuditLogRepositoryWithTx(tx)

	if err = txDocRepo.UpdateReview(ctx, doc); err != nil {
		return err
	}

	if err = txUserRepo.UpdateVerificationStatus(ctx, userID, aggregate); err != nil {
		return err
	}

	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		AdminID:   adminID,
		Action:    fmt.Sprintf("reviewed document %s of user %s: %s", doc.ID, userID, doc.Status),
		CreatedAt: time.Now(),
	}
	if err = txAuditRepo.Create(ctx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// requirementsForRole loads the active catalog for a role, consulting the
// redis cache first and falling back to the hardcoded defaults when no
// active rows are configured.
func (s *VerificationService) requirementsForRole(ctx context.Context, role domain.Role) ([]*domain.DocumentRequirement, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetCatalog(ctx, role); err == nil && cached != nil {
			return cached, nil
		}
	}

	reqs, err := s.requirementRepo.GetActiveForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		reqs = DefaultRequirementsFor(role)
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetCatalog(ctx, role, reqs)
	}

	return reqs, nil
}

// SubmitRequest contains the parameters for submitting a document.
type SubmitRequest struct {
	UserID    string
	Type      string
	FileURL   string
	Number    string
	ExpiresAt time.Time
}

// SubmitDocument records a new PENDING submission. When the owner's current
// aggregate status is REJECTED it is reset to PENDING in the same
// transaction: a fresh submission always reopens review and never jumps
// straight back to VERIFIED.
func (s *VerificationService) SubmitDocument(ctx context.Context, req SubmitRequest) (*domain.Document, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Type == "" {
		return nil, ErrInvalidDocumentType
	}
	if req.FileURL == "" {
		return nil, ErrInvalidFileURL
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, ErrAdminNotReviewable
	}

	doc := &domain.Document{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Type:      req.Type,
		FileURL:   req.FileURL,
		Number:    req.Number,
		ExpiresAt: req.ExpiresAt,
		Status:    domain.ReviewPending,
		CreatedAt: time.Now(),
	}

	newStatus := StatusAfterSubmission(user.VerificationStatus)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txDocRepo := postgres.NewDocumentRepositoryWithTx(tx)
	if err = txDocRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if newStatus != user.VerificationStatus {
		txUserRepo := postgres.NewUserRepositoryWithTx(tx)
		if err = txUserRepo.UpdateVerificationStatus(ctx, user.ID, newStatus); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if s.cacheStore != nil && newStatus != user.VerificationStatus {
		_ = s.cacheStore.InvalidateProfile(ctx, user.ID)
	}

	return doc, nil
}

// StatusAfterSubmission returns the aggregate status a fresh submission
// leaves the user in. A REJECTED account reopens to PENDING; any other
// status is unchanged until the next review.
func StatusAfterSubmission(current domain.VerificationStatus) domain.VerificationStatus {
	if current == domain.VerificationRejected {
		return domain.VerificationPending
	}
	return current
}

// ComputeAggregateStatus reduces per-type effective statuses into one
// aggregate:
//
//   - any required type effectively REJECTED -> REJECTED (first found wins,
//     requirement order)
//   - else any required type missing or PENDING -> PENDING
//   - else -> VERIFIED
//
// An empty requirement set yields PENDING: nothing to check means nothing
// verified. docs must be ordered most recently reviewed first (the
// repository guarantees this); reviewed is the submission just acted upon
// and overrides any stored row with the same ID.
func ComputeAggregateStatus(reqs []*domain.DocumentRequirement, docs []*domain.Document, reviewed *domain.Document) domain.VerificationStatus {
	if len(reqs) == 0 {
		return domain.VerificationPending
	}

	anyOpen := false
	for _, req := range reqs {
		effective, ok := effectiveStatus(req.Type, docs, reviewed)
		switch {
		case !ok:
			anyOpen = true
		case effective == domain.ReviewRejected:
			return domain.VerificationRejected
		case effective != domain.ReviewApproved:
			anyOpen = true
		}
	}

	if anyOpen {
		return domain.VerificationPending
	}
	return domain.VerificationVerified
}

// effectiveStatus resolves the status of one required type: the status just
// assigned when the acted-upon submission is of that type, otherwise the
// most recently reviewed submission of the type. ok is false when the user
// has no submission of the type at all.
func effectiveStatus(docType string, docs []*domain.Document, reviewed *domain.Document) (domain.ReviewStatus, bool) {
	if reviewed != nil && reviewed.Type == docType {
		return reviewed.Status, true
	}

	for _, doc := range docs {
		if doc.Type != docType {
			continue
		}
		if reviewed != nil && doc.ID == reviewed.ID {
			continue
		}
		return doc.Status, true
	}
	return "", false
}

// CatalogForRole returns the effective requirement catalog a user of the
// given role must satisfy, including the default fallback.
func (s *VerificationService) CatalogForRole(ctx context.Context, role domain.Role) ([]*domain.DocumentRequirement, error) {
	if role == domain.RoleAdmin {
		return nil, nil
	}
	return s.requirementsForRole(ctx, role)
}

// FullCatalog returns every configured requirement row, for the admin
// configuration surface.
func (s *VerificationService) FullCatalog(ctx context.Context) ([]*domain.DocumentRequirement, error) {
	return s.requirementRepo.GetAll(ctx)
}

// ReplaceCatalog atomically replaces the configured catalog and drops the
// cached per-role copies.
func (s *VerificationService) ReplaceCatalog(ctx context.Context, reqs []*domain.DocumentRequirement) error {
	for _, req := range reqs {
		if req.ID == "" {
			req.ID = uuid.New().String()
		}
		if req.Type == "" {
			return ErrInvalidDocumentType
		}
	}

	if err := s.requirementRepo.ReplaceAll(ctx, reqs); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateCatalogs(ctx)
	}
	return nil
}
