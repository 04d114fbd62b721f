package service

import (
	"context"
	"sort"

	"carpool/internal/domain"
	"carpool/internal/geo"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// Compatibility thresholds. Fixed constants of the algorithm, not
// user-configurable.
const (
	maxMatchDistanceKm   = 5.0
	maxMatchTimeDiffMins = 30
)

// MatchingService ranks candidate routes against a reference route.
type MatchingService struct {
	userRepo   repository.UserRepository
	routeRepo  repository.RouteRepository
	cacheStore *redis.CacheStore
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	userRepo repository.UserRepository,
	routeRepo repository.RouteRepository,
	cacheStore *redis.CacheStore,
) *MatchingService {
	return &MatchingService{
		userRepo:   userRepo,
		routeRepo:  routeRepo,
		cacheStore: cacheStore,
	}
}

// MatchCandidate is one ranked match result. It exists only within a single
// FindMatches invocation and is never persisted.
type MatchCandidate struct {
	Owner             domain.User
	RouteID           string
	Score             float64
	OriginDistanceKm  float64
	DestDistanceKm    float64
	OutboundDeltaMins int
	ReturnDeltaMins   int
}

// FindMatches returns candidates compatible with the given route, best score
// first. The acting user must own the route and hold VERIFIED status; the
// candidate pool is verified users of the complementary role, excluding the
// requester.
func (s *MatchingService) FindMatches(ctx context.Context, userID, routeID string) ([]MatchCandidate, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.VerificationStatus != domain.VerificationVerified {
		return nil, ErrUserNotVerified
	}

	counterpart := user.Role.Counterpart()
	if counterpart == "" {
		return nil, ErrRoleNotMatchable
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route.UserID != userID {
		return nil, ErrRouteNotOwned
	}

	pool, err := s.routeRepo.FindCandidates(ctx, userID, counterpart)
	if err != nil {
		return nil, err
	}

	matches, err := RankCandidates(route, pool)
	if err != nil {
		return nil, err
	}

	// Warm the profile cache for the owners we just served; contact creation
	// typically follows a match listing.
	if s.cacheStore != nil {
		for i := range matches {
			_ = s.cacheStore.SetProfile(ctx, &matches[i].Owner)
		}
	}

	return matches, nil
}

// validatedRoute is a route whose coordinates and times passed boundary
// validation, with times pre-parsed.
type validatedRoute struct {
	route    *domain.Route
	outbound geo.TimeOfDay
	ret      geo.TimeOfDay
}

// validateRoute rejects non-finite or out-of-range coordinates and
// unparseable times before any distance math runs.
func validateRoute(route *domain.Route) (*validatedRoute, error) {
	if !geo.ValidCoordinate(route.OriginLat, route.OriginLng) {
		return nil, ErrInvalidOrigin
	}
	if !geo.ValidCoordinate(route.DestLat, route.DestLng) {
		return nil, ErrInvalidDestination
	}

	outbound, err := geo.ParseTimeOfDay(route.OutboundAt)
	if err != nil {
		return nil, ErrInvalidTimeOfDay
	}
	ret, err := geo.ParseTimeOfDay(route.ReturnAt)
	if err != nil {
		return nil, ErrInvalidTimeOfDay
	}

	return &validatedRoute{route: route, outbound: outbound, ret: ret}, nil
}

// RankCandidates filters the pool by the compatibility predicate and sorts
// survivors ascending by score. A malformed reference route is a validation
// error; malformed candidates are dropped, and ties keep input order.
func RankCandidates(route *domain.Route, pool []*repository.CandidateRoute) ([]MatchCandidate, error) {
	ref, err := validateRoute(route)
	if err != nil {
		return nil, err
	}

	matches := make([]MatchCandidate, 0, len(pool))

	for _, candidate := range pool {
		c, err := validateRoute(&candidate.Route)
		if err != nil {
			continue
		}

		originKm := geo.HaversineKm(ref.route.OriginLat, ref.route.OriginLng, c.route.OriginLat, c.route.OriginLng)
		destKm := geo.HaversineKm(ref.route.DestLat, ref.route.DestLng, c.route.DestLat, c.route.DestLng)
		if originKm > maxMatchDistanceKm || destKm > maxMatchDistanceKm {
			continue
		}

		outboundDelta := geo.DeltaMinutes(ref.outbound, c.outbound)
		returnDelta := geo.DeltaMinutes(ref.ret, c.ret)
		if outboundDelta > maxMatchTimeDiffMins || returnDelta > maxMatchTimeDiffMins {
			continue
		}

		// Mixed units (km + fractional hours) kept as-is: the score is a
		// ranking heuristic, not a physical quantity.
		score := originKm + destKm + float64(outboundDelta)/60 + float64(returnDelta)/60

		matches = append(matches, MatchCandidate{
			Owner:             candidate.Owner,
			RouteID:           candidate.Route.ID,
			Score:             score,
			OriginDistanceKm:  originKm,
			DestDistanceKm:    destKm,
			OutboundDeltaMins: outboundDelta,
			ReturnDeltaMins:   returnDelta,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})

	return matches, nil
}
