package dispatch_reminders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/VideoBookingService/internal/api/handlers"
	dispatchReminders "github.com/m04kA/VideoBookingService/internal/usecase/dispatch_reminders"
)

const (
	msgInvalidLimit       = "некорректный limit, ожидается положительное число"
	msgPublishUnavailable = "очередь уведомлений недоступна, повторите позже"
)

// DispatchRemindersResponse HTTP response model
type DispatchRemindersResponse struct {
	Dispatched int `json:"dispatched"`
}

type Handler struct {
	useCase DispatchRemindersUseCase
	logger  Logger
}

func NewHandler(useCase DispatchRemindersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reminders/dispatch
// Query params: limit (optional) - размер пачки
// Ручной запуск выгрузки, в штатном режиме её делает фоновый тикер
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &dispatchReminders.Request{}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			h.logger.Warn("POST /reminders/dispatch - Invalid limit: %q", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		req.Limit = limit
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, dispatchReminders.ErrPublish):
			h.logger.Error("POST /reminders/dispatch - Publish failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgPublishUnavailable)

		default:
			h.logger.Error("POST /reminders/dispatch - Failed to dispatch reminders: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reminders/dispatch - Dispatched %d reminders", result.Dispatched)
	handlers.RespondJSON(w, http.StatusOK, &DispatchRemindersResponse{Dispatched: result.Dispatched})
}
