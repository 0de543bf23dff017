package reschedule_booking

import (
	"strings"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Формат времени проверяет decider
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.BookingID) == "" {
		return domain.NewMissingFieldError("bookingId")
	}
	if req.ScheduledDate.IsZero() {
		return domain.NewMissingFieldError("scheduledDate")
	}
	if req.ScheduledTime.IsZero() {
		return domain.NewMissingFieldError("scheduledTime")
	}
	return nil
}
