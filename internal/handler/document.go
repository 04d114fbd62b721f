package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/repository"
	"carpool/internal/service"
)

// DocumentHandler handles HTTP requests for document submissions.
type DocumentHandler struct {
	verificationService *service.VerificationService
	documentRepo        repository.DocumentRepository
	userRepo            repository.UserRepository
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	verificationService *service.VerificationService,
	documentRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
) *DocumentHandler {
	return &DocumentHandler{
		verificationService: verificationService,
		documentRepo:        documentRepo,
		userRepo:            userRepo,
	}
}

// SubmitDocumentRequest is the HTTP request body for submitting a document.
// The file itself is uploaded to object storage by the client; this endpoint
// records the submission metadata.
type SubmitDocumentRequest struct {
	Type      string `json:"type"`
	FileURL   string `json:"file_url"`
	Number    string `json:"number,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"` // RFC 3339
}

// DocumentResponse is the HTTP response for document data.
type DocumentResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Type       string `json:"type"`
	FileURL    string `json:"file_url"`
	Number     string `json:"number,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	Status     string `json:"status"`
	ReviewNote string `json:"review_note,omitempty"`
	ReviewedAt string `json:"reviewed_at,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toDocumentResponse(doc *domain.Document) DocumentResponse {
	response := DocumentResponse{
		ID:         doc.ID,
		UserID:     doc.UserID,
		Type:       doc.Type,
		FileURL:    doc.FileURL,
		Number:     doc.Number,
		Status:     string(doc.Status),
		ReviewNote: doc.ReviewNote,
		CreatedAt:  doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if !doc.ExpiresAt.IsZero() {
		response.ExpiresAt = doc.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if !doc.ReviewedAt.IsZero() {
		response.ReviewedAt = doc.ReviewedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// Submit handles POST /v1/documents
func (h *DocumentHandler) Submit(c *gin.Context) {
	var req SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var expiresAt time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expires_at must be RFC 3339"})
			return
		}
		expiresAt = parsed
	}

	doc, err := h.verificationService.SubmitDocument(c.Request.Context(), service.SubmitRequest{
		UserID:    middleware.UserID(c),
		Type:      req.Type,
		FileURL:   req.FileURL,
		Number:    req.Number,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDocumentResponse(doc))
}

// GetMine handles GET /v1/documents
func (h *DocumentHandler) GetMine(c *gin.Context) {
	docs, err := h.documentRepo.GetByUser(c.Request.Context(), middleware.UserID(c))
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

// RequirementResponse is the HTTP response for one catalog entry.
type RequirementResponse struct {
	ID          string `json:"id,omitempty"`
	Role        string `json:"role"`
	Type        string `json:"type"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	Order       int    `json:"order"`
}

func toRequirementResponse(req *domain.DocumentRequirement) RequirementResponse {
	return RequirementResponse{
		ID:          req.ID,
		Role:        string(req.Role),
		Type:        req.Type,
		Label:       req.Label,
		Description: req.Description,
		Active:      req.Active,
		Order:       req.Order,
	}
}

// GetCatalog handles GET /v1/documents/catalog
func (h *DocumentHandler) GetCatalog(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	reqs, err := h.verificationService.CatalogForRole(c.Request.Context(), user.Role)
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
