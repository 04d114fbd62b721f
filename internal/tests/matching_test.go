package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
)

// Coordinates around São Paulo. At this latitude one degree of longitude
// is about 102 km, so offsets below are computed from that.
const (
	baseLat = -23.5505
	baseLng = -46.6333
)

// lngOffsetKm returns a longitude offset that is approximately km away
// from baseLng at baseLat.
func lngOffsetKm(km float64) float64 {
	return km / (111.19 * math.Cos(baseLat*math.Pi/180))
}

func referenceRoute(userID string) *domain.Route {
	return &domain.Route{
		ID:         "route-ref",
		UserID:     userID,
		OriginLat:  baseLat,
		OriginLng:  baseLng,
		DestLat:    baseLat + 0.2,
		DestLng:    baseLng + 0.2,
		OutboundAt: "07:30",
		ReturnAt:   "17:30",
	}
}

// candidateAt builds a candidate whose origin is originKm away from the
// reference origin and whose destination matches the reference destination.
func candidateAt(id, ownerID string, originKm float64, outboundAt, returnAt string) *repository.CandidateRoute {
	return &repository.CandidateRoute{
		Route: domain.Route{
			ID:         id,
			UserID:     ownerID,
			OriginLat:  baseLat,
			OriginLng:  baseLng + lngOffsetKm(originKm),
			DestLat:    baseLat + 0.2,
			DestLng:    baseLng + 0.2,
			OutboundAt: outboundAt,
			ReturnAt:   returnAt,
		},
		Owner: domain.User{
			ID:                 ownerID,
			Role:               domain.RoleDriver,
			VerificationStatus: domain.VerificationVerified,
		},
	}
}

func TestRankCandidates_DistanceThreshold(t *testing.T) {
	ref := referenceRoute("user-1")

	pool := []*repository.CandidateRoute{
		candidateAt("route-far", "owner-far", 5.01, "07:30", "17:30"),
		candidateAt("route-near", "owner-near", 4.99, "07:30", "17:30"),
	}

	matches, err := service.RankCandidates(ref, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].RouteID != "route-near" {
		t.Errorf("expected route-near, got %s", matches[0].RouteID)
	}
}

func TestRankCandidates_TimeThreshold(t *testing.T) {
	ref := referenceRoute("user-1")

	pool := []*repository.CandidateRoute{
		// 31 minutes off on the outbound leg.
		candidateAt("route-late", "owner-late", 0, "08:01", "17:30"),
		// Exactly 30 minutes off, at the boundary, still compatible.
		candidateAt("route-edge", "owner-edge", 0, "08:00", "17:30"),
		// 31 minutes off on the return leg only.
		candidateAt("route-return-late", "owner-rl", 0, "07:30", "18:01"),
	}

	matches, err := service.RankCandidates(ref, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].RouteID != "route-edge" {
		t.Errorf("expected route-edge, got %s", matches[0].RouteID)
	}
	if matches[0].OutboundDeltaMins != 30 {
		t.Errorf("expected outbound delta 30, got %d", matches[0].OutboundDeltaMins)
	}
}

func TestRankCandidates_OrdersByScoreAscending(t *testing.T) {
	ref := referenceRoute("user-1")

	// Insert out of order; distances dominate the score here.
	pool := []*repository.CandidateRoute{
		candidateAt("route-mid", "owner-mid", 2.0, "07:30", "17:30"),
		candidateAt("route-worst", "owner-worst", 4.0, "07:30", "17:30"),
		candidateAt("route-best", "owner-best", 0.5, "07:30", "17:30"),
	}

	matches, err := service.RankCandidates(ref, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}

	want := []string{"route-best", "route-mid", "route-worst"}
	for i, id := range want {
		if matches[i].RouteID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, matches[i].RouteID)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score < matches[i-1].Score {
			t.Errorf("scores not ascending at %d: %f < %f", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestRankCandidates_TimeDeltaContributesToScore(t *testing.T) {
	ref := referenceRoute("user-1")

	// Same coordinates, different time offsets; the closer schedule wins.
	pool := []*repository.CandidateRoute{
		candidateAt("route-off-20", "owner-a", 0, "07:50", "17:30"),
		candidateAt("route-off-5", "owner-b", 0, "07:35", "17:30"),
	}

	matches, err := service.RankCandidates(ref, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].RouteID != "route-off-5" {
		t.Errorf("expected route-off-5 first, got %s", matches[0].RouteID)
	}
}

func TestRankCandidates_DropsMalformedCandidates(t *testing.T) {
	ref := referenceRoute("user-1")

	bad := candidateAt("route-bad", "owner-bad", 0, "07:30", "17:30")
	bad.Route.OriginLat = math.NaN()

	badTime := candidateAt("route-bad-time", "owner-bt", 0, "7:30am", "17:30")

	pool := []*repository.CandidateRoute{
		bad,
		badTime,
		candidateAt("route-good", "owner-good", 1.0, "07:30", "17:30"),
	}

	matches, err := service.RankCandidates(ref, pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].RouteID != "route-good" {
		t.Errorf("expected route-good, got %s", matches[0].RouteID)
	}
}

func TestRankCandidates_MalformedReferenceIsError(t *testing.T) {
	ref := referenceRoute("user-1")
	ref.OriginLat = 91.0

	_, err := service.RankCandidates(ref, nil)
	if !errors.Is(err, service.ErrInvalidOrigin) {
		t.Fatalf("expected ErrInvalidOrigin, got %v", err)
	}

	ref = referenceRoute("user-1")
	ref.OutboundAt = "25:00"
	_, err = service.RankCandidates(ref, nil)
	if !errors.Is(err, service.ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
	}
}

func TestFindMatches_RequiresVerifiedUser(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	routeRepo := NewMockRouteRepository()
	userRepo.AddUser(&domain.User{
		ID:                 "user-1",
		Role:               domain.RolePassenger,
		VerificationStatus: domain.VerificationPending,
	})
	routeRepo.AddRoute(referenceRoute("user-1"))

	matchingService := service.NewMatchingService(userRepo, routeRepo, nil)

	_, err := matchingService.FindMatches(ctx, "user-1", "route-ref")
	if !errors.Is(err, service.ErrUserNotVerified) {
		t.Fatalf("expected ErrUserNotVerified, got %v", err)
	}
}

func TestFindMatches_AdminHasNoCounterpart(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	routeRepo := NewMockRouteRepository()
	userRepo.AddUser(&domain.User{
		ID:                 "admin-1",
		Role:               domain.RoleAdmin,
		VerificationStatus: domain.VerificationVerified,
	})
	routeRepo.AddRoute(referenceRoute("admin-1"))

	matchingService := service.NewMatchingService(userRepo, routeRepo, nil)

	_, err := matchingService.FindMatches(ctx, "admin-1", "route-ref")
	if !errors.Is(err, service.ErrRoleNotMatchable) {
		t.Fatalf("expected ErrRoleNotMatchable, got %v", err)
	}
}

func TestFindMatches_RequiresRouteOwnership(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	routeRepo := NewMockRouteRepository()
	userRepo.AddUser(&domain.User{
		ID:                 "user-2",
		Role:               domain.RolePassenger,
		VerificationStatus: domain.VerificationVerified,
	})
	routeRepo.AddRoute(referenceRoute("user-1"))

	matchingService := service.NewMatchingService(userRepo, routeRepo, nil)

	_, err := matchingService.FindMatches(ctx, "user-2", "route-ref")
	if !errors.Is(err, service.ErrRouteNotOwned) {
		t.Fatalf("expected ErrRouteNotOwned, got %v", err)
	}
}

func TestFindMatches_ExcludesRequesterAndUnverifiedOwners(t *testing.T) {
	ctx := context.Background()

	userRepo := NewMockUserRepository()
	routeRepo := NewMockRouteRepository()
	userRepo.AddUser(&domain.User{
		ID:                 "user-1",
		Role:               domain.RolePassenger,
		VerificationStatus: domain.VerificationVerified,
	})
	routeRepo.AddRoute(referenceRoute("user-1"))

	own := candidateAt("route-own", "user-1", 0, "07:30", "17:30")
	unverified := candidateAt("route-unverified", "owner-u", 0, "07:30", "17:30")
	unverified.Owner.VerificationStatus = domain.VerificationPending
	samRole := candidateAt("route-same-role", "owner-s", 0, "07:30", "17:30")
	samRole.Owner.Role = domain.RolePassenger
	good := candidateAt("route-good", "owner-good", 1.0, "07:30", "17:30")

	routeRepo.Candidates = []*repository.CandidateRoute{own, unverified, samRole, good}

	matchingService := service.NewMatchingService(userRepo, routeRepo, nil)

	matches, err := matchingService.FindMatches(ctx, "user-1", "route-ref")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].RouteID != "route-good" {
		t.Errorf("expected route-good, got %s", matches[0].RouteID)
	}
	if matches[0].Owner.ID != "owner-good" {
		t.Errorf("expected owner-good, got %s", matches[0].Owner.ID)
	}
}
