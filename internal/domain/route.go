package domain

import "time"

// RouteSource tells where the distance figures came from
type RouteSource string

const (
	RouteSourceHaversine RouteSource = "haversine"
	RouteSourceProvider  RouteSource = "provider"
)

// Waypoint is a stop derived from an approved booking. Never persisted on its own.
type Waypoint struct {
	BookingID       string
	Coordinates     *Coordinates
	DurationMinutes int
}

// HasCoordinates returns true if the waypoint can take part in optimization
func (w Waypoint) HasCoordinates() bool {
	return w.Coordinates != nil
}

// RouteOptimizationResult is an immutable snapshot of a day's visiting order.
// A new result supersedes the old one; results are never mutated.
type RouteOptimizationResult struct {
	Date                 time.Time   `json:"date"`
	OptimizedOrder       []string    `json:"optimizedOrder"`
	TotalDistanceMeters  int         `json:"totalDistanceMeters"`
	TotalDurationSeconds int         `json:"totalDurationSeconds"`
	Excluded             []string    `json:"excluded"`
	Source               RouteSource `json:"source"`
	ComputedAt           time.Time   `json:"computedAt"`
}

// StopCount returns the number of optimized stops
func (r *RouteOptimizationResult) StopCount() int {
	return len(r.OptimizedOrder)
}

// HasExclusions returns true if some bookings lacked coordinates
func (r *RouteOptimizationResult) HasExclusions() bool {
	return len(r.Excluded) > 0
}
