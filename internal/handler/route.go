package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// CreateRouteRequest is the HTTP request body for declaring a route.
type CreateRouteRequest struct {
	Name       string  `json:"name"`
	OriginLat  float64 `json:"origin_lat"`
	OriginLng  float64 `json:"origin_lng"`
	DestLat    float64 `json:"dest_lat"`
	DestLng    float64 `json:"dest_lng"`
	OutboundAt string  `json:"outbound_at"` // HH:MM
	ReturnAt   string  `json:"return_at"`   // HH:MM
}

// RouteResponse is the HTTP response for route data.
type RouteResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Name       string  `json:"name"`
	OriginLat  float64 `json:"origin_lat"`
	OriginLng  float64 `json:"origin_lng"`
	DestLat    float64 `json:"dest_lat"`
	DestLng    float64 `json:"dest_lng"`
	OutboundAt string  `json:"outbound_at"`
	ReturnAt   string  `json:"return_at"`
	Polyline   string  `json:"polyline"`
	CreatedAt  string  `json:"created_at"`
}

func toRouteResponse(r *domain.Route) RouteResponse {
	return RouteResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		OriginLat:  r.OriginLat,
		OriginLng:  r.OriginLng,
		DestLat:    r.DestLat,
		DestLng:    r.DestLng,
		OutboundAt: r.OutboundAt,
		ReturnAt:   r.ReturnAt,
		Polyline:   r.Polyline,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create handles POST /v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), service.CreateRouteRequest{
		UserID:     middleware.UserID(c),
		Name:       req.Name,
		OriginLat:  req.OriginLat,
		OriginLng:  req.OriginLng,
		DestLat:    req.DestLat,
		DestLng:    req.DestLng,
		OutboundAt: req.OutboundAt,
		ReturnAt:   req.ReturnAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRouteResponse(route))
}

// GetAll handles GET /v1/routes
func (h *RouteHandler) GetAll(c *gin.Context) {
	routes, err := h.routeService.ListRoutes(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var response []RouteResponse
	for _, r := range routes {
		response = append(response, toRouteResponse(r))
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /v1/routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	err := h.routeService.DeleteRoute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
