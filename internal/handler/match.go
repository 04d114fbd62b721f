package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/middleware"
	"carpool/internal/service"
)

// MatchHandler handles HTTP requests for match listings.
type MatchHandler struct {
	matchingService *service.MatchingService
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matchingService *service.MatchingService) *MatchHandler {
	return &MatchHandler{matchingService: matchingService}
}

// MatchResponse is one ranked match in the HTTP response.
type MatchResponse struct {
	RouteID           string  `json:"route_id"`
	OwnerID           string  `json:"owner_id"`
	OwnerName         string  `json:"owner_name"`
	OwnerImageURL     string  `json:"owner_image_url,omitempty"`
	OwnerRole         string  `json:"owner_role"`
	Score             float64 `json:"score"`
	OriginDistanceKm  float64 `json:"origin_distance_km"`
	DestDistanceKm    float64 `json:"dest_distance_km"`
	OutboundDeltaMins int     `json:"outbound_delta_mins"`
	ReturnDeltaMins   int     `json:"return_delta_mins"`
}

// GetMatches handles GET /v1/routes/:id/matches
func (h *MatchHandler) GetMatches(c *gin.Context) {
	matches, err := h.matchingService.FindMatches(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, MatchResponse{
			RouteID:           m.RouteID,
			OwnerID:           m.Owner.ID,
			OwnerName:         m.Owner.Name,
			OwnerImageURL:     m.Owner.ImageURL,
			OwnerRole:         string(m.Owner.Role),
			Score:             m.Score,
			OriginDistanceKm:  m.OriginDistanceKm,
			DestDistanceKm:    m.DestDistanceKm,
			OutboundDeltaMins: m.OutboundDeltaMins,
			ReturnDeltaMins:   m.ReturnDeltaMins,
		})
	}

	respondJSON(c, http.StatusOK, response)
}
