package get_day_route

import (
	"context"

	optimizeRoute "github.com/m04kA/VideoBookingService/internal/usecase/optimize_route"
)

type OptimizeRouteUseCase interface {
	Execute(ctx context.Context, req *optimizeRoute.Request) (*optimizeRoute.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
