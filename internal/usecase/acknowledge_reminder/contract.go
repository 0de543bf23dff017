package acknowledge_reminder

import (
	"context"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// ReminderRepository интерфейс репозитория напоминаний
type ReminderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ReminderEntry, error)
	MarkSent(ctx context.Context, id string, at time.Time) error
	ReleaseDispatch(ctx context.Context, id string, at time.Time) error
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
