package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.BookingRequest) error
}

// ReminderRepository интерфейс репозитория напоминаний
type ReminderRepository interface {
	CreateBatch(ctx context.Context, entries []domain.ReminderEntry) error
}

// AgentDirectory интерфейс клиента каталога агентов
type AgentDirectory interface {
	GetAgent(ctx context.Context, agentID string) (*domain.Agent, error)
}

// RouteCache интерфейс кэша маршрутов
type RouteCache interface {
	Invalidate(ctx context.Context, dates ...time.Time) error
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveDecision(outcome string)
	ObserveReminderScheduled(status string)
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
