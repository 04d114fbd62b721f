package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/repository"
	"carpool/internal/service"
)

// AdminHandler handles the document-review and catalog-configuration surface.
type AdminHandler struct {
	verificationService *service.VerificationService
	documentRepo        repository.DocumentRepository
	userRepo            repository.UserRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	verificationService *service.VerificationService,
	documentRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		verificationService: verificationService,
		documentRepo:        documentRepo,
		userRepo:            userRepo,
	}
}

// requireAdmin loads the caller and aborts with 403 unless they hold the
// ADMIN role. Returns the admin's ID and whether the request may proceed.
func (h *AdminHandler) requireAdmin(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	if user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin role required"})
		return "", false
	}
	return user.ID, true
}

// GetPendingDocuments handles GET /v1/admin/documents/pending
func (h *AdminHandler) GetPendingDocuments(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	docs, err := h.documentRepo.GetPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, toDocumentResponse(doc))
	}

	respondJSON(c, http.StatusOK, response)
}

// ReviewDocumentRequest is the HTTP request body for a review decision.
type ReviewDocumentRequest struct {
	Status string `json:"status"` // APPROVED or REJECTED
	Note   string `json:"note,omitempty"`
}

// ReviewDocumentResponse is the HTTP response for a review decision.
type ReviewDocumentResponse struct {
	Document        DocumentResponse `json:"document"`
	AggregateStatus string           `json:"aggregate_status"`
}

// ReviewDocument handles PATCH /v1/admin/documents/:id
func (h *AdminHandler) ReviewDocument(c *gin.Context) {
	adminID, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	var req ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.verificationService.ReviewDocument(c.Request.Context(), service.ReviewRequest{
		DocumentID: c.Param("id"),
		AdminID:    adminID,
		Status:     domain.ReviewStatus(req.Status),
		Note:       req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReviewDocumentResponse{
		Document:        toDocumentResponse(result.Document),
		AggregateStatus: string(result.AggregateStatus),
	})
}

// GetDocumentConfig handles GET /v1/admin/document-config
func (h *AdminHandler) GetDocumentConfig(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	reqs, err := h.verificationService.FullCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RequirementResponse, 0, len(reqs))
	for _, req := range reqs {
		response = append(response, toRequirementResponse(req))
	}

	respondJSON(c, http.StatusOK, response)
}

// PutDocumentConfigRequest is the HTTP request body for replacing the
// requirement catalog.
type PutDocumentConfigRequest struct {
	Requirements []RequirementResponse `json:"requirements"`
}

// PutDocumentConfig handles PUT /v1/admin/document-config
func (h *AdminHandler) PutDocumentConfig(c *gin.Context) {
	if _, ok := h.requireAdmin(c); !ok {
		return
	}

	var req PutDocumentConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	reqs := make([]*domain.DocumentRequirement, 0, len(req.Requirements))
	for _, entry := range req.Requirements {
		reqs = append(reqs, &domain.DocumentRequirement{
			ID:          entry.ID,
			Role:        domain.Role(entry.Role),
			Type:        entry.Type,
			Label:       entry.Label,
			Description: entry.Description,
			Active:      entry.Active,
			Order:       entry.Order,
		})
	}

	if err := h.verificationService.ReplaceCatalog(c.Request.Context(), reqs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
