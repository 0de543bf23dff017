package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/VideoBookingService/internal/api/handlers"
	"github.com/m04kA/VideoBookingService/internal/domain"
	rescheduleBooking "github.com/m04kA/VideoBookingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заявка не найдена"
	msgNotApproved        = "перенести можно только подтверждённую заявку"
	msgConflict           = "заявка изменена другим запросом, обновите данные"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if msg, ok := handlers.ValidationMessage(err); ok {
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Validation failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msg)
			return
		}

		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrNotApproved):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not approved: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgNotApproved)

		case errors.Is(err, domain.ErrConcurrentModification):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Concurrent modification: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule booking: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%s, date=%s, time=%s, reminders=%d",
		bookingID, req.ScheduledDate, req.ScheduledTime, len(result.Reminders))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
