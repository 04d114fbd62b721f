package domain

import "time"

// Route represents a user's declared commute: origin and destination
// coordinates plus outbound and return times of day ("HH:MM").
type Route struct {
	ID         string
	UserID     string
	Name       string
	OriginLat  float64
	OriginLng  float64
	DestLat    float64
	DestLng    float64
	OutboundAt string
	ReturnAt   string
	Polyline   string // display-only, never inspected by matching
	CreatedAt  time.Time
}

// NoPolyline is stored when no directions provider is configured or the
// provider call fails. Route creation never fails on polyline fetch.
const NoPolyline = "no_polyline"
