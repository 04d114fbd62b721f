package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/geo"
	"carpool/internal/repository"
)

// RouteService handles route lifecycle operations.
type RouteService struct {
	routeRepo  repository.RouteRepository
	directions DirectionsProvider
}

// NewRouteService creates a new RouteService.
func NewRouteService(routeRepo repository.RouteRepository, directions DirectionsProvider) *RouteService {
	return &RouteService{
		routeRepo:  routeRepo,
		directions: directions,
	}
}

// CreateRouteRequest contains the parameters for declaring a route.
type CreateRouteRequest struct {
	UserID     string
	Name       string
	OriginLat  float64
	OriginLng  float64
	DestLat    float64
	DestLng    float64
	OutboundAt string
	ReturnAt   string
}

// CreateRoute validates and persists a new route. The polyline fetch is best
// effort: a provider failure degrades to the placeholder and never fails the
// creation.
func (s *RouteService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*domain.Route, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if !geo.ValidCoordinate(req.OriginLat, req.OriginLng) {
		return nil, ErrInvalidOrigin
	}
	if !geo.ValidCoordinate(req.DestLat, req.DestLng) {
		return nil, ErrInvalidDestination
	}
	if _, err := geo.ParseTimeOfDay(req.OutboundAt); err != nil {
		return nil, ErrInvalidTimeOfDay
	}
	if _, err := geo.ParseTimeOfDay(req.ReturnAt); err != nil {
		return nil, ErrInvalidTimeOfDay
	}

	polyline := domain.NoPolyline
	if s.directions != nil {
		fetched, err := s.directions.Polyline(ctx, req.OriginLat, req.OriginLng, req.DestLat, req.DestLng)
		if err != nil {
			log.Printf("directions fetch failed, storing placeholder polyline: %v", err)
		} else if fetched != "" {
			polyline = fetched
		}
	}

	route := &domain.Route{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		Name:       req.Name,
		OriginLat:  req.OriginLat,
		OriginLng:  req.OriginLng,
		DestLat:    req.DestLat,
		DestLng:    req.DestLng,
		OutboundAt: req.OutboundAt,
		ReturnAt:   req.ReturnAt,
		Polyline:   polyline,
		CreatedAt:  time.Now(),
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

// ListRoutes returns the routes owned by a user.
func (s *RouteService) ListRoutes(ctx context.Context, userID string) ([]*domain.Route, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.routeRepo.GetByUser(ctx, userID)
}

// DeleteRoute removes a route after checking ownership.
func (s *RouteService) DeleteRoute(ctx context.Context, userID, routeID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if routeID == "" {
		return ErrInvalidRouteID
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		return err
	}
	if route.UserID != userID {
		return ErrRouteNotOwned
	}

	return s.routeRepo.Delete(ctx, routeID)
}
