package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"carpool/internal/config"
)

// DirectionsProvider fetches a display polyline for a route. The polyline is
// opaque to everything downstream; matching never inspects it.
type DirectionsProvider interface {
	Polyline(ctx context.Context, originLat, originLng, destLat, destLng float64) (string, error)
}

// NoopDirections is a DirectionsProvider used when no provider is
// configured. It always returns an empty polyline.
type NoopDirections struct{}

// NewNoopDirections creates a new NoopDirections.
func NewNoopDirections() *NoopDirections {
	return &NoopDirections{}
}

// Polyline returns an empty polyline.
func (d *NoopDirections) Polyline(ctx context.Context, originLat, originLng, destLat, destLng float64) (string, error) {
	return "", nil
}

// MapboxDirections fetches driving polylines from the Mapbox Directions API.
type MapboxDirections struct {
	token  string
	client *http.Client
}

// NewMapboxDirections creates a new MapboxDirections.
func NewMapboxDirections(cfg config.MapboxConfig) *MapboxDirections {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MapboxDirections{
		token:  cfg.AccessToken,
		client: &http.Client{Timeout: timeout},
	}
}

type mapboxResponse struct {
	Routes []struct {
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// Polyline returns the geometry of the first driving route between the two
// points. Coordinates go to Mapbox as lng,lat pairs.
func (d *MapboxDirections) Polyline(ctx context.Context, originLat, originLng, destLat, destLng float64) (string, error) {
	endpoint := fmt.Sprintf(
		"https://api.mapbox.com/directions/v5/mapbox/driving/%f,%f;%f,%f",
		originLng, originLat, destLng, destLat,
	)

	q := url.Values{}
	q.Set("overview", "full")
	q.Set("access_token", d.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mapbox directions: unexpected status %d", resp.StatusCode)
	}

	var body mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if len(body.Routes) == 0 {
		return "", nil
	}
	return body.Routes[0].Geometry, nil
}
