package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carpool/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	ProfileCacheTTL = 30 * time.Second // Verification status changes on review
	CatalogCacheTTL = 5 * time.Minute  // Requirement catalog changes rarely
)

// Key prefixes
const (
	profileCachePrefix = "cache:user:"
	catalogCachePrefix = "cache:doc-catalog:"
)

// CachedProfile is the cached public slice of a user record.
type CachedProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// GetProfile retrieves a user's public profile from cache.
func (s *CacheStore) GetProfile(ctx context.Context, userID string) (*CachedProfile, error) {
	data, err := s.client.Get(ctx, profileCachePrefix+userID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var profile CachedProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfile stores a user's public profile in cache.
func (s *CacheStore) SetProfile(ctx context.Context, user *domain.User) error {
	profile := CachedProfile{
		ID:       user.ID,
		Name:     user.Name,
		ImageURL: user.ImageURL,
		Role:     string(user.Role),
		Status:   string(user.VerificationStatus),
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, profileCachePrefix+user.ID, data, ProfileCacheTTL).Err()
}

// InvalidateProfile removes a user's profile from cache. Called whenever the
// verification service writes a new aggregate status.
func (s *CacheStore) InvalidateProfile(ctx context.Context, userID string) error {
	return s.client.Del(ctx, profileCachePrefix+userID).Err()
}

// GetCatalog retrieves a role's requirement catalog from cache.
func (s *CacheStore) GetCatalog(ctx context.Context, role domain.Role) ([]*domain.DocumentRequirement, error) {
	data, err := s.client.Get(ctx, catalogCachePrefix+string(role)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var reqs []*domain.DocumentRequirement
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// SetCatalog stores a role's requirement catalog in cache.
func (s *CacheStore) SetCatalog(ctx context.Context, role domain.Role, reqs []*domain.DocumentRequirement) error {
	data, err := json.Marshal(reqs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, catalogCachePrefix+string(role), data, CatalogCacheTTL).Err()
}

// InvalidateCatalogs removes all cached requirement catalogs. Called after an
// admin replaces the catalog.
func (s *CacheStore) InvalidateCatalogs(ctx context.Context) error {
	keys := []string{
		catalogCachePrefix + string(domain.RolePassenger),
		catalogCachePrefix + string(domain.RoleDriver),
	}
	return s.client.Del(ctx, keys...).Err()
}
