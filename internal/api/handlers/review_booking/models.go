package review_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/VideoBookingService/internal/service/approval"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
	reviewBooking "github.com/m04kA/VideoBookingService/internal/usecase/review_booking"
)

// ReviewBookingRequest HTTP request model
// Тело опционально: expected* поля включают проверку состояния, которое видел менеджер
type ReviewBookingRequest struct {
	ExpectedStatus    string  `json:"expectedStatus,omitempty"`
	ExpectedUpdatedAt string  `json:"expectedUpdatedAt,omitempty"` // RFC3339
	Notes             *string `json:"notes,omitempty"`
}

// ReviewBookingResponse HTTP response model
type ReviewBookingResponse struct {
	Booking            *models.BookingResponse   `json:"booking"`
	PreviousStatus     string                    `json:"previousStatus"`
	Reminders          []models.ReminderResponse `json:"reminders"`
	CancelledReminders int64                     `json:"cancelledReminders"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReviewBookingRequest) ToUseCaseRequest(bookingID, action string) (*reviewBooking.Request, error) {
	req := &reviewBooking.Request{
		BookingID: bookingID,
		Action:    approval.Action(action),
		Notes:     r.Notes,
	}

	if r.ExpectedStatus != "" {
		status, err := models.ToDomainBookingStatus(r.ExpectedStatus)
		if err != nil {
			return nil, fmt.Errorf("expectedStatus: %w", err)
		}
		req.ExpectedStatus = status
	}

	if r.ExpectedUpdatedAt != "" {
		at, err := time.Parse(time.RFC3339Nano, r.ExpectedUpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("expectedUpdatedAt: %w", err)
		}
		req.ExpectedUpdatedAt = at.UTC()
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *reviewBooking.Response) *ReviewBookingResponse {
	return &ReviewBookingResponse{
		Booking:            models.FromDomainBooking(resp.Booking),
		PreviousStatus:     string(resp.PreviousStatus),
		Reminders:          models.FromDomainReminders(resp.Reminders),
		CancelledReminders: resp.CancelledReminders,
	}
}

