package dispatch_reminders

import (
	"context"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// ReminderRepository интерфейс репозитория напоминаний
type ReminderRepository interface {
	ListDue(ctx context.Context, filter domain.DueRemindersFilter) ([]domain.ReminderEntry, error)
	MarkDispatched(ctx context.Context, ids []string, at time.Time) (int64, error)
}

// Publisher интерфейс очереди уведомлений
type Publisher interface {
	Publish(ctx context.Context, entries []domain.ReminderEntry) error
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveRemindersDispatched(n int)
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
