package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/VideoBookingService/internal/api/handlers"
	submitBooking "github.com/m04kA/VideoBookingService/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgAgentNotFound      = "агент не найден"
	msgAgentUnavailable   = "каталог агентов недоступен, повторите позже"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		msg, ok := handlers.ValidationMessage(err)
		if !ok {
			msg = msgInvalidDate
		}
		handlers.RespondBadRequest(w, msg)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if msg, ok := handlers.ValidationMessage(err); ok {
			h.logger.Warn("POST /bookings - Validation failed: agent_id=%s, error=%v", req.AgentID, err)
			handlers.RespondBadRequest(w, msg)
			return
		}

		switch {
		case errors.Is(err, submitBooking.ErrAgentNotFound):
			h.logger.Warn("POST /bookings - Agent not found: agent_id=%s", req.AgentID)
			handlers.RespondNotFound(w, msgAgentNotFound)

		case errors.Is(err, submitBooking.ErrAgentUnavailable):
			h.logger.Error("POST /bookings - Agent directory unavailable: agent_id=%s, error=%v", req.AgentID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgAgentUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to submit booking: agent_id=%s, error=%v", req.AgentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking submitted: booking_id=%s, agent_id=%s, score=%d, status=%s",
		result.Booking.ID, req.AgentID, result.Booking.PriorityScore, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
