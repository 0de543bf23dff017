package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VideoBookingService/pkg/types"
)

// ErrInvalidSettings is returned when engine settings fail validation
var ErrInvalidSettings = errors.New("invalid engine settings")

// EngineSettings is the single configuration consumed by the scorer, the approval
// decider, the route optimizer and the reminder scheduler
type EngineSettings struct {
	Scoring   ScoringSettings
	Approval  ApprovalSettings
	Routing   RoutingSettings
	Reminders ReminderSettings
}

// ScoringSettings holds per-category caps and point tables of the priority score
type ScoringSettings struct {
	PropertyValueMax int
	ComplexityMax    int
	AgentTierMax     int
	FlexibilityMax   int
	LeadTimeMax      int

	PropertyValuePoints map[PropertyValueTier]int
	ComplexityPoints    map[ShootComplexity]int
	AgentTierPoints     map[AgentTier]int

	LeadTimePlateauDays int

	// Estimated shoot duration per complexity
	DurationMinutes map[ShootComplexity]int
}

// ApprovalSettings holds the score thresholds of the initial placement
type ApprovalSettings struct {
	AutoApprovalThreshold  int
	ManagerReviewThreshold int
}

// RoutingSettings holds route heuristic parameters
type RoutingSettings struct {
	MinutesPerMile      float64
	MaxTwoOptIterations int
}

// ReminderSettings holds reminder offsets and the fallback event time
type ReminderSettings struct {
	Offsets []time.Duration
	// Used when the booking has no scheduled time yet
	DefaultStartTime types.TimeString
	Location         *time.Location
}

// DefaultEngineSettings returns the documented defaults
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Scoring: ScoringSettings{
			PropertyValueMax: DefaultPropertyValueMax,
			ComplexityMax:    DefaultComplexityMax,
			AgentTierMax:     DefaultAgentTierMax,
			FlexibilityMax:   DefaultFlexibilityMax,
			LeadTimeMax:      DefaultLeadTimeMax,
			PropertyValuePoints: map[PropertyValueTier]int{
				PropertyUnder500K: 10,
				Property500KTo1M:  18,
				Property1MTo2M:    24,
				PropertyOver2M:    30,
			},
			ComplexityPoints: map[ShootComplexity]int{
				ComplexityQuick:    25,
				ComplexityStandard: 18,
				ComplexityPremium:  10,
				ComplexityLuxury:   5,
			},
			AgentTierPoints: map[AgentTier]int{
				AgentStandard: 8,
				AgentPremium:  14,
				AgentElite:    20,
			},
			LeadTimePlateauDays: DefaultLeadTimePlateauDays,
			DurationMinutes: map[ShootComplexity]int{
				ComplexityQuick:    60,
				ComplexityStandard: 90,
				ComplexityPremium:  120,
				ComplexityLuxury:   180,
			},
		},
		Approval: ApprovalSettings{
			AutoApprovalThreshold:  DefaultAutoApprovalThreshold,
			ManagerReviewThreshold: DefaultManagerReviewThreshold,
		},
		Routing: RoutingSettings{
			MinutesPerMile:      DefaultMinutesPerMile,
			MaxTwoOptIterations: DefaultMaxTwoOptIterations,
		},
		Reminders: ReminderSettings{
			Offsets:          append([]time.Duration(nil), DefaultReminderOffsets...),
			DefaultStartTime: DefaultReminderStartTime,
			Location:         time.UTC,
		},
	}
}

// Validate checks the settings so that every score stays within [0, 100]
func (s EngineSettings) Validate() error {
	sc := s.Scoring

	total := sc.PropertyValueMax + sc.ComplexityMax + sc.AgentTierMax + sc.FlexibilityMax + sc.LeadTimeMax
	if total != MaxPriorityScore {
		return fmt.Errorf("%w: category maxima sum to %d, want %d", ErrInvalidSettings, total, MaxPriorityScore)
	}
	for name, limit := range map[string]int{
		"property_value": sc.PropertyValueMax,
		"complexity":     sc.ComplexityMax,
		"agent_tier":     sc.AgentTierMax,
		"flexibility":    sc.FlexibilityMax,
		"lead_time":      sc.LeadTimeMax,
	} {
		if limit < 0 {
			return fmt.Errorf("%w: %s max must not be negative", ErrInvalidSettings, name)
		}
	}

	// Property points must not decrease with the tier
	prev := -1
	for _, tier := range PropertyValueTiers {
		p, ok := sc.PropertyValuePoints[tier]
		if !ok {
			return fmt.Errorf("%w: property value points missing for %s", ErrInvalidSettings, tier)
		}
		if p < 0 || p > sc.PropertyValueMax {
			return fmt.Errorf("%w: property value points for %s out of [0, %d]", ErrInvalidSettings, tier, sc.PropertyValueMax)
		}
		if p < prev {
			return fmt.Errorf("%w: property value points must not decrease with tier (%s)", ErrInvalidSettings, tier)
		}
		prev = p
	}

	for _, c := range ShootComplexities {
		p, ok := sc.ComplexityPoints[c]
		if !ok || p < 0 || p > sc.ComplexityMax {
			return fmt.Errorf("%w: complexity points for %s missing or out of [0, %d]", ErrInvalidSettings, c, sc.ComplexityMax)
		}
		if d, ok := sc.DurationMinutes[c]; !ok || d <= 0 {
			return fmt.Errorf("%w: duration for %s must be positive", ErrInvalidSettings, c)
		}
	}

	for _, tier := range []AgentTier{AgentStandard, AgentPremium, AgentElite} {
		p, ok := sc.AgentTierPoints[tier]
		if !ok || p < 0 || p > sc.AgentTierMax {
			return fmt.Errorf("%w: agent tier points for %s missing or out of [0, %d]", ErrInvalidSettings, tier, sc.AgentTierMax)
		}
	}

	if sc.LeadTimePlateauDays <= 0 {
		return fmt.Errorf("%w: lead time plateau must be positive", ErrInvalidSettings)
	}

	a := s.Approval
	if a.ManagerReviewThreshold < 0 || a.AutoApprovalThreshold > MaxPriorityScore || a.ManagerReviewThreshold > a.AutoApprovalThreshold {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= review (%d) <= auto (%d) <= %d",
			ErrInvalidSettings, a.ManagerReviewThreshold, a.AutoApprovalThreshold, MaxPriorityScore)
	}

	if s.Routing.MinutesPerMile <= 0 {
		return fmt.Errorf("%w: minutes per mile must be positive", ErrInvalidSettings)
	}
	if s.Routing.MaxTwoOptIterations <= 0 {
		return fmt.Errorf("%w: 2-opt iteration cap must be positive", ErrInvalidSettings)
	}

	seen := make(map[time.Duration]bool, len(s.Reminders.Offsets))
	for _, off := range s.Reminders.Offsets {
		if off <= 0 {
			return fmt.Errorf("%w: reminder offset %s must be positive", ErrInvalidSettings, off)
		}
		if seen[off] {
			return fmt.Errorf("%w: duplicate reminder offset %s", ErrInvalidSettings, off)
		}
		seen[off] = true
	}
	if err := s.Reminders.DefaultStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: reminder start time: %v", ErrInvalidSettings, err)
	}
	if s.Reminders.Location == nil {
		return fmt.Errorf("%w: reminder location is required", ErrInvalidSettings)
	}

	return nil
}
