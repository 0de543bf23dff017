package list_day_bookings

import (
	"context"

	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListDayBookings(ctx context.Context, req *models.GetDayBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
