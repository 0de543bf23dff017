package review_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/VideoBookingService/internal/api/handlers"
	"github.com/m04kA/VideoBookingService/internal/domain"
	reviewBooking "github.com/m04kA/VideoBookingService/internal/usecase/review_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заявка не найдена"
	msgInvalidTransition  = "переход статуса недопустим"
	msgConflict           = "заявка изменена другим запросом, обновите данные"
)

type Handler struct {
	useCase ReviewBookingUseCase
	logger  Logger
}

func NewHandler(useCase ReviewBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/{action}
// action: approve, decline, complete, cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID := vars["bookingId"]
	action := vars["action"]

	var req ReviewBookingRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/%s - Invalid request body: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, action)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/%s - Failed to parse request: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if msg, ok := handlers.ValidationMessage(err); ok {
			h.logger.Warn("PATCH /bookings/{id}/%s - Validation failed: booking_id=%s, error=%v", action, bookingID, err)
			handlers.RespondBadRequest(w, msg)
			return
		}

		switch {
		case errors.Is(err, reviewBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/%s - Booking not found: booking_id=%s", action, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/%s - Invalid transition: booking_id=%s, error=%v", action, bookingID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, domain.ErrConcurrentModification):
			h.logger.Warn("PATCH /bookings/{id}/%s - Concurrent modification: booking_id=%s", action, bookingID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PATCH /bookings/{id}/%s - Failed to review booking: booking_id=%s, error=%v", action, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/%s - Booking reviewed: booking_id=%s, %s -> %s",
		action, bookingID, result.PreviousStatus, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
