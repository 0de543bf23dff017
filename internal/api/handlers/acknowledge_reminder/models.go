package acknowledge_reminder

import (
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
	acknowledgeReminder "github.com/m04kA/VideoBookingService/internal/usecase/acknowledge_reminder"
)

// AcknowledgeReminderRequest HTTP request model
// Тело необязательно: без него доставка считается успешной
type AcknowledgeReminderRequest struct {
	Delivered *bool  `json:"delivered,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в usecase request
func (r *AcknowledgeReminderRequest) ToUseCaseRequest(reminderID string) *acknowledgeReminder.Request {
	return &acknowledgeReminder.Request{
		ReminderID: reminderID,
		Failed:     r.Delivered != nil && !*r.Delivered,
		Reason:     r.Reason,
	}
}

// AcknowledgeReminderResponse HTTP response model
type AcknowledgeReminderResponse struct {
	Reminder models.ReminderResponse `json:"reminder"`
}
