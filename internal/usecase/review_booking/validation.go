package review_booking

import (
	"errors"
	"strings"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.BookingID) == "" {
		return domain.NewMissingFieldError("bookingId")
	}
	if req.Action == "" {
		return domain.NewMissingFieldError("action")
	}
	if _, ok := approval.TargetStatus(req.Action); !ok {
		return domain.NewInvalidValueError("action", req.Action)
	}
	return nil
}

// resultLabel метка исхода перехода для метрик
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	case errors.Is(err, ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrConcurrentModification):
		return "conflict"
	default:
		return "error"
	}
}
