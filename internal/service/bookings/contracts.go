package bookings

import (
	"context"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BookingRequest, error)
	ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.BookingRequest, error)
}

// ReminderRepository интерфейс репозитория напоминаний
type ReminderRepository interface {
	ListByBooking(ctx context.Context, bookingID string) ([]domain.ReminderEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
