package domain

import "time"

// Role represents the profile type of a registered user.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleDriver    Role = "DRIVER"
	RoleAdmin     Role = "ADMIN"
)

// VerificationStatus is the aggregate trust status derived from a user's
// document reviews. It is written only by the verification service.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// User represents a registered parent (or admin) in the system.
type User struct {
	ID                 string
	Name               string
	Email              string
	ImageURL           string
	Role               Role
	VerificationStatus VerificationStatus
	CreatedAt          time.Time
}

// Counterpart returns the role matched against this one. Admins have no
// counterpart.
func (r Role) Counterpart() Role {
	switch r {
	case RolePassenger:
		return RoleDriver
	case RoleDriver:
		return RolePassenger
	default:
		return ""
	}
}
