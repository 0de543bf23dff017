package acknowledge_reminder

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/VideoBookingService/internal/api/handlers"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
	acknowledgeReminder "github.com/m04kA/VideoBookingService/internal/usecase/acknowledge_reminder"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "напоминание не найдено"
	msgNotPending         = "напоминание уже отправлено или отменено"
)

type Handler struct {
	useCase AcknowledgeReminderUseCase
	logger  Logger
}

func NewHandler(useCase AcknowledgeReminderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reminders/{reminderId}/ack
// Вызывается сервисом уведомлений после попытки доставки
// {"delivered": false} возвращает напоминание в очередь выгрузки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reminderID := mux.Vars(r)["reminderId"]

	var req AcknowledgeReminderRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /reminders/{id}/ack - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	useCaseReq := req.ToUseCaseRequest(reminderID)

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if msg, ok := handlers.ValidationMessage(err); ok {
			h.logger.Warn("POST /reminders/{id}/ack - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msg)
			return
		}

		switch {
		case errors.Is(err, acknowledgeReminder.ErrReminderNotFound):
			h.logger.Warn("POST /reminders/{id}/ack - Reminder not found: reminder_id=%s", reminderID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, acknowledgeReminder.ErrReminderNotPending):
			h.logger.Warn("POST /reminders/{id}/ack - Reminder not pending: reminder_id=%s, error=%v", reminderID, err)
			handlers.RespondConflict(w, msgNotPending)

		default:
			h.logger.Error("POST /reminders/{id}/ack - Failed to acknowledge reminder: reminder_id=%s, error=%v", reminderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if useCaseReq.Failed {
		h.logger.Info("POST /reminders/{id}/ack - Delivery failure recorded: reminder_id=%s, booking_id=%s", reminderID, result.Reminder.BookingID)
	} else {
		h.logger.Info("POST /reminders/{id}/ack - Reminder acknowledged: reminder_id=%s, booking_id=%s", reminderID, result.Reminder.BookingID)
	}
	handlers.RespondJSON(w, http.StatusOK, &AcknowledgeReminderResponse{Reminder: models.FromDomainReminder(*result.Reminder)})
}
