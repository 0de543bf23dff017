package reschedule_booking

import (
	"context"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.BookingRequest, error)
	UpdateSchedule(ctx context.Context, booking *domain.BookingRequest, expectedUpdatedAt time.Time) error
}

// ReminderRepository интерфейс репозитория напоминаний
type ReminderRepository interface {
	ListByBooking(ctx context.Context, bookingID string) ([]domain.ReminderEntry, error)
	CreateBatch(ctx context.Context, entries []domain.ReminderEntry) error
	CancelPending(ctx context.Context, ids []string, at time.Time) (int64, error)
}

// RouteCache интерфейс кэша маршрутов
type RouteCache interface {
	Invalidate(ctx context.Context, dates ...time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
