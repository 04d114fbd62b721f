package domain

import "time"

// ReviewStatus represents the review state of a single document submission.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// Document type identifiers used by the default requirement catalog.
const (
	DocTypeGuardianID    = "RG_CNH"
	DocTypeChildID       = "CRIANCA"
	DocTypeDriverLicense = "CNH_MOTORISTA"
)

// Document is a single identity-document submission by a user. A user may
// hold several submissions of the same type; ReviewedAt orders them so the
// most recently reviewed one decides the type's effective status.
type Document struct {
	ID         string
	UserID     string
	Type       string
	FileURL    string
	Number     string
	ExpiresAt  time.Time
	Status     ReviewStatus
	ReviewNote string
	ReviewedAt time.Time
	CreatedAt  time.Time
}

// DocumentRequirement is one entry of the per-role catalog the verification
// service evaluates against.
type DocumentRequirement struct {
	ID          string
	Role        Role
	Type        string
	Label       string
	Description string
	Active      bool
	Order       int
}
