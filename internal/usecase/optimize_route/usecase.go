package optimize_route

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/integrations/distancematrix"
	"github.com/m04kA/VideoBookingService/internal/service/routing"
)

// UseCase use case построения маршрута дня
//
// Расчёты одного и того же дня должны идти последовательно: снимок в кэше
// перезаписывается целиком, и при параллельных расчётах побеждает последний.
// Вызывающий (планировщик или ручной запрос менеджера) обязан это обеспечить.
type UseCase struct {
	bookingRepo    BookingRepository
	distanceMatrix DistanceMatrix
	routeCache     RouteCache
	optimizer      *routing.Optimizer
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// distanceMatrix == nil - расстояния всегда по haversine
func NewUseCase(
	bookingRepo BookingRepository,
	distanceMatrix DistanceMatrix,
	routeCache RouteCache,
	optimizer *routing.Optimizer,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		distanceMatrix: distanceMatrix,
		routeCache:     routeCache,
		optimizer:      optimizer,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute возвращает маршрут по подтверждённым заявкам дня
// Заявки без координат в маршрут не попадают и перечислены в Excluded
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req.Date.IsZero() {
		uc.logger.Warn("OptimizeRoute: date is required")
		return nil, domain.NewMissingFieldError("date")
	}
	day := domain.DateOnly(req.Date)

	uc.logger.Info("OptimizeRoute: date=%s, refresh=%t", day.Format(domain.DateFormat), req.Refresh)

	// 2. Кэш; недоступный кэш - не повод отказывать, просто считаем заново
	if !req.Refresh {
		cached, found, err := uc.routeCache.Get(ctx, day)
		switch {
		case err != nil:
			uc.logger.Warn("OptimizeRoute: route cache lookup failed: %v", err)
		case found:
			uc.metrics.ObserveRouteCache(true)
			uc.logger.Info("OptimizeRoute: date=%s served from cache, computed at %s",
				day.Format(domain.DateFormat), cached.ComputedAt.Format(time.RFC3339))
			return &Response{Result: cached, FromCache: true}, nil
		default:
			uc.metrics.ObserveRouteCache(false)
		}
	}

	// 3. Подтверждённые заявки дня
	status := domain.StatusApproved
	bookings, err := uc.bookingRepo.ListByDay(ctx, domain.DayBookingsFilter{Date: day, Status: &status})
	if err != nil {
		uc.logger.Error("OptimizeRoute: failed to list bookings for %s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	waypoints := make([]domain.Waypoint, 0, len(bookings))
	for _, b := range bookings {
		waypoints = append(waypoints, b.Waypoint())
	}

	// 4. Матрица провайдера, если он настроен
	started := time.Now()
	matrix := uc.providerMatrix(ctx, waypoints)

	// 5. Оптимизация
	result, excluded := uc.optimizer.Optimize(day, waypoints, matrix, uc.timeProvider.Now())
	uc.metrics.ObserveRouteOptimization(string(result.Source), time.Since(started))

	for _, e := range excluded {
		uc.logger.Warn("OptimizeRoute: %v", e)
	}

	// 6. Сохраняем снимок
	if err := uc.routeCache.Set(ctx, result); err != nil {
		uc.logger.Warn("OptimizeRoute: failed to cache route for %s: %v", day.Format(domain.DateFormat), err)
	}

	uc.logger.Info("OptimizeRoute: date=%s stops=%d excluded=%d distance=%dm duration=%ds source=%s",
		day.Format(domain.DateFormat), result.StopCount(), len(result.Excluded),
		result.TotalDistanceMeters, result.TotalDurationSeconds, result.Source)

	return &Response{Result: result}, nil
}

// providerMatrix запрашивает матрицу для точек с координатами в том же порядке,
// в каком их отберёт optimizer; при любой ошибке возвращает nil (haversine)
func (uc *UseCase) providerMatrix(ctx context.Context, waypoints []domain.Waypoint) *routing.Matrix {
	if uc.distanceMatrix == nil {
		return nil
	}
	usable, _ := routing.Split(waypoints)
	if len(usable) < 2 {
		return nil
	}

	points := make([]distancematrix.Point, 0, len(usable))
	for _, wp := range usable {
		points = append(points, distancematrix.Point{Lat: wp.Coordinates.Lat, Lng: wp.Coordinates.Lng})
	}

	m, err := uc.distanceMatrix.GetMatrix(ctx, points)
	if err != nil {
		uc.logger.Warn("OptimizeRoute: distance provider failed, falling back to haversine: %v", err)
		return nil
	}
	return &routing.Matrix{DistanceMeters: m.DistanceMeters, DurationSeconds: m.DurationSeconds}
}
