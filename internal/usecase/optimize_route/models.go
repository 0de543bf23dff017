package optimize_route

import (
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// Request модель запроса маршрута дня
type Request struct {
	Date    time.Time // День съемок (без времени)
	Refresh bool      // Пересчитать, игнорируя кэш
}

// Response модель ответа с маршрутом
type Response struct {
	Result    *domain.RouteOptimizationResult
	FromCache bool
}
