package tests

import (
	"context"
	"errors"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// failingDirections always fails the polyline fetch.
type failingDirections struct{}

func (failingDirections) Polyline(ctx context.Context, originLat, originLng, destLat, destLng float64) (string, error) {
	return "", errors.New("provider unavailable")
}

// fixedDirections returns a constant polyline.
type fixedDirections struct {
	polyline string
}

func (d fixedDirections) Polyline(ctx context.Context, originLat, originLng, destLat, destLng float64) (string, error) {
	return d.polyline, nil
}

func validCreateRequest(userID string) service.CreateRouteRequest {
	return service.CreateRouteRequest{
		UserID:     userID,
		Name:       "School run",
		OriginLat:  baseLat,
		OriginLng:  baseLng,
		DestLat:    baseLat + 0.1,
		DestLng:    baseLng + 0.1,
		OutboundAt: "07:15",
		ReturnAt:   "17:45",
	}
}

func TestCreateRoute_StoresFetchedPolyline(t *testing.T) {
	ctx := context.Background()
	routeRepo := NewMockRouteRepository()
	routeService := service.NewRouteService(routeRepo, fixedDirections{polyline: "abc123"})

	route, err := routeService.CreateRoute(ctx, validCreateRequest("user-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Polyline != "abc123" {
		t.Errorf("expected polyline abc123, got %s", route.Polyline)
	}
	if !routeRepo.HasRoute(route.ID) {
		t.Error("expected route to be persisted")
	}
}

func TestCreateRoute_ProviderFailureDegradesToPlaceholder(t *testing.T) {
	ctx := context.Background()
	routeRepo := NewMockRouteRepository()
	routeService := service.NewRouteService(routeRepo, failingDirections{})

	route, err := routeService.CreateRoute(ctx, validCreateRequest("user-1"))
	if err != nil {
		t.Fatalf("provider failure must not fail creation: %v", err)
	}
	if route.Polyline != domain.NoPolyline {
		t.Errorf("expected placeholder polyline, got %s", route.Polyline)
	}
}

func TestCreateRoute_ValidatesInput(t *testing.T) {
	ctx := context.Background()
	routeService := service.NewRouteService(NewMockRouteRepository(), service.NewNoopDirections())

	badOrigin := validCreateRequest("user-1")
	badOrigin.OriginLat = 91
	if _, err := routeService.CreateRoute(ctx, badOrigin); !errors.Is(err, service.ErrInvalidOrigin) {
		t.Errorf("expected ErrInvalidOrigin, got %v", err)
	}

	badDest := validCreateRequest("user-1")
	badDest.DestLng = -181
	if _, err := routeService.CreateRoute(ctx, badDest); !errors.Is(err, service.ErrInvalidDestination) {
		t.Errorf("expected ErrInvalidDestination, got %v", err)
	}

	badTime := validCreateRequest("user-1")
	badTime.OutboundAt = "24:00"
	if _, err := routeService.CreateRoute(ctx, badTime); !errors.Is(err, service.ErrInvalidTimeOfDay) {
		t.Errorf("expected ErrInvalidTimeOfDay, got %v", err)
	}

	noUser := validCreateRequest("")
	if _, err := routeService.CreateRoute(ctx, noUser); !errors.Is(err, service.ErrInvalidUserID) {
		t.Errorf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestDeleteRoute_EnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	routeRepo := NewMockRouteRepository()
	routeService := service.NewRouteService(routeRepo, service.NewNoopDirections())

	routeRepo.AddRoute(&domain.Route{ID: "route-1", UserID: "user-1"})

	err := routeService.DeleteRoute(ctx, "user-2", "route-1")
	if !errors.Is(err, service.ErrRouteNotOwned) {
		t.Fatalf("expected ErrRouteNotOwned, got %v", err)
	}
	if !routeRepo.HasRoute("route-1") {
		t.Error("route must survive a rejected delete")
	}

	if err := routeService.DeleteRoute(ctx, "user-1", "route-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if routeRepo.HasRoute("route-1") {
		t.Error("expected route to be deleted")
	}
}
