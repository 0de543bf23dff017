package domain

import "time"

// ReminderStatus is the delivery state of a reminder entry
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCancelled ReminderStatus = "cancelled"
)

// ReminderEntry is one notification to dispatch before a shoot
type ReminderEntry struct {
	ID           string
	BookingID    string
	Offset       time.Duration // How long before the event
	ScheduledAt  time.Time
	Status       ReminderStatus
	DispatchedAt *time.Time // Handed to the dispatcher, still awaiting acknowledgement
	SentAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPending returns true if the reminder may still be delivered
func (r *ReminderEntry) IsPending() bool {
	return r.Status == ReminderPending
}

// IsDue returns true if a pending reminder should be handed to the dispatcher
func (r *ReminderEntry) IsDue(now time.Time) bool {
	return r.IsPending() && r.DispatchedAt == nil && !r.ScheduledAt.After(now)
}

// DueRemindersFilter selects reminders ready for dispatch
type DueRemindersFilter struct {
	Now   time.Time
	Limit int
}
