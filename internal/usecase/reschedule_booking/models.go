package reschedule_booking

import (
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/pkg/types"
)

// Request модель запроса на перенос съемки
type Request struct {
	BookingID         string
	ScheduledDate     time.Time        // Новый день съемки (без времени)
	ScheduledTime     types.TimeString // Время начала, например "10:30"
	ExpectedUpdatedAt time.Time        // zero - не проверять
}

// Response модель ответа с перенесённой заявкой
type Response struct {
	Booking            *domain.BookingRequest
	Reminders          []domain.ReminderEntry // Новый набор напоминаний
	CancelledReminders int64
	InvalidatedDays    []time.Time
}
