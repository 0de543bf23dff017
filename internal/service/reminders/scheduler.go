package reminders

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/pkg/types"
)

// ErrNotSchedulable возвращается для брони, которой напоминания не положены
var ErrNotSchedulable = errors.New("reminders: booking is not approved")

// Scheduler считает, когда отправлять напоминания о съемке
// Сам ничего не отправляет и не запускает таймеров
type Scheduler struct {
	settings domain.ReminderSettings
	newID    func() string
}

// NewScheduler создает scheduler
func NewScheduler(settings domain.ReminderSettings) *Scheduler {
	offsets := append([]time.Duration(nil), settings.Offsets...)
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] > offsets[j] })
	settings.Offsets = offsets
	if settings.Location == nil {
		settings.Location = time.UTC
	}

	return &Scheduler{
		settings: settings,
		newID:    uuid.NewString,
	}
}

// EventTime возвращает момент съемки: назначенные дата и время,
// а до назначения - предпочтительная дата во время по умолчанию
func (s *Scheduler) EventTime(booking *domain.BookingRequest) (time.Time, error) {
	if booking.ScheduledDate != nil && booking.ScheduledTime != nil {
		at, err := booking.ScheduledTime.On(*booking.ScheduledDate, s.settings.Location)
		if err != nil {
			return time.Time{}, &domain.ValidationError{Field: "scheduledTime", Reason: "must be HH:MM"}
		}
		return at, nil
	}

	day := booking.PreferredDate
	if booking.ScheduledDate != nil {
		day = *booking.ScheduledDate
	}
	if day.IsZero() {
		return time.Time{}, domain.NewMissingFieldError("preferredDate")
	}

	start := s.settings.DefaultStartTime
	if start.IsZero() {
		start = types.TimeString(domain.DefaultReminderStartTime)
	}
	at, err := start.On(day, s.settings.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("reminders: default start time: %w", err)
	}
	return at, nil
}

// Schedule строит полный набор напоминаний, по одному на каждый offset
// Offset, чей момент уже наступил, сразу помечается cancelled: задним числом не отправляем
// Записи упорядочены от самой ранней к самой поздней
func (s *Scheduler) Schedule(booking *domain.BookingRequest, now time.Time) ([]domain.ReminderEntry, error) {
	if booking == nil {
		return nil, domain.NewMissingFieldError("booking")
	}
	if !booking.IsApproved() {
		return nil, fmt.Errorf("%w: booking %s is %s", ErrNotSchedulable, booking.ID, booking.Status)
	}

	event, err := s.EventTime(booking)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ReminderEntry, 0, len(s.settings.Offsets))
	for _, offset := range s.settings.Offsets {
		at := event.Add(-offset)
		status := domain.ReminderPending
		if !at.After(now) {
			status = domain.ReminderCancelled
		}
		entries = append(entries, domain.ReminderEntry{
			ID:          s.newID(),
			BookingID:   booking.ID,
			Offset:      offset,
			ScheduledAt: at,
			Status:      status,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return entries, nil
}

// Cancel отменяет все pending напоминания и возвращает только изменённые записи
// Отправленные и уже отменённые записи не трогаются
func (s *Scheduler) Cancel(existing []domain.ReminderEntry, now time.Time) []domain.ReminderEntry {
	changed := make([]domain.ReminderEntry, 0, len(existing))
	for _, entry := range existing {
		if !entry.IsPending() {
			continue
		}
		entry.Status = domain.ReminderCancelled
		entry.UpdatedAt = domain.NextUpdatedAt(entry.UpdatedAt, now)
		changed = append(changed, entry)
	}
	return changed
}

// Reschedule отменяет текущие pending напоминания и строит новый набор от нового времени
// После применения обоих списков на каждый offset остается не больше одной активной записи
func (s *Scheduler) Reschedule(booking *domain.BookingRequest, existing []domain.ReminderEntry, now time.Time) ([]domain.ReminderEntry, []domain.ReminderEntry, error) {
	fresh, err := s.Schedule(booking, now)
	if err != nil {
		return nil, nil, err
	}
	return s.Cancel(existing, now), fresh, nil
}
