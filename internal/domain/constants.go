package domain

import "time"

// Default engine settings
const (
	DefaultAutoApprovalThreshold  = 80
	DefaultManagerReviewThreshold = 60

	DefaultPropertyValueMax = 30
	DefaultComplexityMax    = 25
	DefaultAgentTierMax     = 20
	DefaultFlexibilityMax   = 10
	DefaultLeadTimeMax      = 15

	DefaultLeadTimePlateauDays = 14

	DefaultMinutesPerMile      = 2.4 // ~25 mph urban driving
	DefaultMaxTwoOptIterations = 50

	DefaultReminderStartTime = "09:00"
)

// DefaultReminderOffsets are the reminder lead times before a shoot
var DefaultReminderOffsets = []time.Duration{
	7 * 24 * time.Hour,
	2 * 24 * time.Hour,
	24 * time.Hour,
	2 * time.Hour,
}

// Business validation constants
const (
	MaxPriorityScore      = 100
	MaxManagerNotesLength = 1000
	MaxBackupDates        = 5
	MaxAddressLength      = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
