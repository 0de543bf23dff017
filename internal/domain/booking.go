package domain

import (
	"time"

	"github.com/m04kA/VideoBookingService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking request
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusDeclined  BookingStatus = "declined"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ReviewFlag records why a booking was placed in its initial status
type ReviewFlag string

const (
	FlagAutoApproved  ReviewFlag = "auto_approved"
	FlagManagerReview ReviewFlag = "manager_review"
	FlagFlexibleHold  ReviewFlag = "flexible_hold"
	FlagAutoDeclined  ReviewFlag = "auto_declined"
)

// PropertyValueTier is the value bracket of the listed property
type PropertyValueTier string

const (
	PropertyUnder500K PropertyValueTier = "under_500k"
	Property500KTo1M  PropertyValueTier = "500k_1m"
	Property1MTo2M    PropertyValueTier = "1m_2m"
	PropertyOver2M    PropertyValueTier = "over_2m"
)

// PropertyValueTiers lists tiers in ascending order of value
var PropertyValueTiers = []PropertyValueTier{
	PropertyUnder500K,
	Property500KTo1M,
	Property1MTo2M,
	PropertyOver2M,
}

// ShootComplexity describes how much work the shoot takes
type ShootComplexity string

const (
	ComplexityQuick    ShootComplexity = "quick"
	ComplexityStandard ShootComplexity = "standard"
	ComplexityPremium  ShootComplexity = "premium"
	ComplexityLuxury   ShootComplexity = "luxury"
)

// ShootComplexities lists complexities from simplest to most involved
var ShootComplexities = []ShootComplexity{
	ComplexityQuick,
	ComplexityStandard,
	ComplexityPremium,
	ComplexityLuxury,
}

// Coordinates is a geocoded location
type Coordinates struct {
	Lat float64
	Lng float64
}

// BookingRequest represents one videography request
type BookingRequest struct {
	ID                string
	AgentID           string
	PropertyValueTier PropertyValueTier
	ShootComplexity   ShootComplexity
	IsUrgent          bool
	PreferredDate     time.Time
	BackupDates       []time.Time
	IsFlexible        bool
	Address           string
	Coordinates       *Coordinates // nil until geocoded by an external collaborator

	EstimatedDurationMinutes int
	PriorityScore            int
	ScoreBreakdown           []ScoreItem

	Status       BookingStatus
	ReviewFlag   ReviewFlag
	ManagerNotes *string

	// Set only after approval and calendar assignment
	ScheduledDate *time.Time
	ScheduledTime *types.TimeString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoreItem is one category of the priority score breakdown
type ScoreItem struct {
	Category    string `json:"category"`
	Points      int    `json:"points"`
	Max         int    `json:"max"`
	Description string `json:"description"`
}

// IsApproved returns true if the booking holds a place in the schedule
func (b *BookingRequest) IsApproved() bool {
	return b.Status == StatusApproved
}

// ServiceDay returns the day the shoot happens on: the scheduled date once assigned,
// the preferred date before that
func (b *BookingRequest) ServiceDay() time.Time {
	if b.ScheduledDate != nil {
		return DateOnly(*b.ScheduledDate)
	}
	return DateOnly(b.PreferredDate)
}

// Waypoint converts the booking into a route stop
func (b *BookingRequest) Waypoint() Waypoint {
	return Waypoint{
		BookingID:       b.ID,
		Coordinates:     b.Coordinates,
		DurationMinutes: b.EstimatedDurationMinutes,
	}
}

// Touch advances UpdatedAt for a mutation happening at now
func (b *BookingRequest) Touch(now time.Time) {
	b.UpdatedAt = NextUpdatedAt(b.UpdatedAt, now)
}

// NextUpdatedAt returns a timestamp strictly after prev, normally now.
// Postgres keeps microseconds, so the step is one microsecond.
func NextUpdatedAt(prev, now time.Time) time.Time {
	now = now.Truncate(time.Microsecond)
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}

// DateOnly strips the clock part, keeping the date in its own location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayBookingsFilter selects bookings of one service day
type DayBookingsFilter struct {
	Date   time.Time      // Service day (scheduled date, or preferred date when not scheduled)
	Status *BookingStatus // Optional status filter
}
