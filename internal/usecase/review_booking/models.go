package review_booking

import (
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
)

// Request модель ручного действия над заявкой
type Request struct {
	BookingID string
	Action    approval.Action

	// Состояние, которое видел менеджер; пустые значения не проверяются
	ExpectedStatus    domain.BookingStatus
	ExpectedUpdatedAt time.Time

	Notes *string
}

// Response модель ответа с заявкой после перехода
type Response struct {
	Booking            *domain.BookingRequest
	PreviousStatus     domain.BookingStatus
	Reminders          []domain.ReminderEntry // Созданные при одобрении
	CancelledReminders int64
}
