package optimize_route

import (
	"context"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/integrations/distancematrix"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	ListByDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.BookingRequest, error)
}

// DistanceMatrix интерфейс провайдера матрицы расстояний (опционально)
type DistanceMatrix interface {
	GetMatrix(ctx context.Context, points []distancematrix.Point) (*distancematrix.Matrix, error)
}

// RouteCache интерфейс кэша маршрутов
type RouteCache interface {
	Get(ctx context.Context, date time.Time) (*domain.RouteOptimizationResult, bool, error)
	Set(ctx context.Context, result *domain.RouteOptimizationResult) error
}

// Metrics интерфейс метрик
type Metrics interface {
	ObserveRouteOptimization(source string, d time.Duration)
	ObserveRouteCache(hit bool)
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
