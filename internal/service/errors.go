package service

import "errors"

var (
	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRouteID is returned when a route ID is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidOrigin is returned when origin coordinates are malformed.
	ErrInvalidOrigin = errors.New("invalid origin coordinates")

	// ErrInvalidDestination is returned when destination coordinates are malformed.
	ErrInvalidDestination = errors.New("invalid destination coordinates")

	// ErrInvalidTimeOfDay is returned when an outbound/return time is not a valid HH:MM.
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")

	// ErrRouteNotOwned is returned when a user acts on a route they do not own.
	ErrRouteNotOwned = errors.New("route does not belong to user")

	// ErrUserNotVerified is returned when an unverified user requests matching.
	ErrUserNotVerified = errors.New("user is not verified")

	// ErrRoleNotMatchable is returned when the acting user's role has no counterpart.
	ErrRoleNotMatchable = errors.New("role cannot be matched")

	// ErrInvalidDocumentID is returned when a document ID is empty.
	ErrInvalidDocumentID = errors.New("invalid document id")

	// ErrInvalidReviewStatus is returned when a review decision is neither APPROVED nor REJECTED.
	ErrInvalidReviewStatus = errors.New("invalid review status")

	// ErrReviewNoteRequired is returned when a rejection carries no reviewer note.
	ErrReviewNoteRequired = errors.New("review note is required for rejection")

	// ErrReviewInProgress is returned when another review for the same user holds the lock.
	ErrReviewInProgress = errors.New("another review for this user is in progress")

	// ErrInvalidDocumentType is returned when a submission carries no document type.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrInvalidFileURL is returned when a submission carries no file URL.
	ErrInvalidFileURL = errors.New("invalid file url")

	// ErrAdminNotReviewable is returned when a document belongs to an admin account.
	ErrAdminNotReviewable = errors.New("admin accounts are not subject to verification")

	// ErrSelfContact is returned when a user tries to open a contact with themselves.
	ErrSelfContact = errors.New("cannot create contact with self")

	// ErrNotContactMember is returned when a user acts on a contact they are not part of.
	ErrNotContactMember = errors.New("user is not a member of this contact")

	// ErrEmptyMessage is returned when a chat message has no content.
	ErrEmptyMessage = errors.New("message content is empty")
)
