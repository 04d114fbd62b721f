package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	userRepo   repository.UserRepository
	cacheStore *internalRedis.CacheStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, cacheStore *internalRedis.CacheStore) *UserHandler {
	return &UserHandler{
		userRepo:   userRepo,
		cacheStore: cacheStore,
	}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ImageURL string `json:"image_url,omitempty"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ImageURL           string `json:"image_url,omitempty"`
	Role               string `json:"role"`
	VerificationStatus string `json:"verification_status"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		ImageURL:           u.ImageURL,
		Role:               string(u.Role),
		VerificationStatus: string(u.VerificationStatus),
	}
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and email are required"})
		return
	}

	role := domain.Role(req.Role)
	if role != domain.RolePassenger && role != domain.RoleDriver {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role must be PASSENGER or DRIVER"})
		return
	}

	// Check if user already exists
	existing, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "User already registered",
			"user":    toUserResponse(existing),
		})
		return
	}

	// Create new user
	user := &domain.User{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Email:              req.Email,
		ImageURL:           req.ImageURL,
		Role:               role,
		VerificationStatus: domain.VerificationPending,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []UserResponse
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}

	c.JSON(http.StatusOK, response)
}

// Me handles GET /v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	// Serve the cached profile when fresh; the dashboard polls this
	// endpoint while a review is pending.
	if h.cacheStore != nil {
		if profile, err := h.cacheStore.GetProfile(ctx, userID); err == nil && profile != nil {
			c.JSON(http.StatusOK, UserResponse{
				ID:                 profile.ID,
				Name:               profile.Name,
				ImageURL:           profile.ImageURL,
				Role:               profile.Role,
				VerificationStatus: profile.Status,
			})
			return
		}
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cacheStore != nil {
		_ = h.cacheStore.SetProfile(ctx, user)
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
