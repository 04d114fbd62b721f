package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrInvalidDocumentID),
		errors.Is(err, service.ErrInvalidOrigin),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrInvalidTimeOfDay),
		errors.Is(err, service.ErrInvalidReviewStatus),
		errors.Is(err, service.ErrReviewNoteRequired),
		errors.Is(err, service.ErrInvalidDocumentType),
		errors.Is(err, service.ErrInvalidFileURL),
		errors.Is(err, service.ErrSelfContact),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrRouteNotOwned),
		errors.Is(err, service.ErrUserNotVerified),
		errors.Is(err, service.ErrRoleNotMatchable),
		errors.Is(err, service.ErrAdminNotReviewable),
		errors.Is(err, service.ErrNotContactMember):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrReviewInProgress):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
