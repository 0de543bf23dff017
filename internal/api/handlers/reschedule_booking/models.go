package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
	rescheduleBooking "github.com/m04kA/VideoBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/VideoBookingService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	ScheduledDate     string `json:"scheduledDate"`               // "2026-05-22"
	ScheduledTime     string `json:"scheduledTime"`               // "10:30"
	ExpectedUpdatedAt string `json:"expectedUpdatedAt,omitempty"` // RFC3339
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	Booking            *models.BookingResponse   `json:"booking"`
	Reminders          []models.ReminderResponse `json:"reminders"`
	CancelledReminders int64                     `json:"cancelledReminders"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Формат времени проверяет use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID string) (*rescheduleBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("scheduledDate: %w", err)
	}

	req := &rescheduleBooking.Request{
		BookingID:     bookingID,
		ScheduledDate: date,
		ScheduledTime: types.TimeString(r.ScheduledTime),
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
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		Booking:            models.FromDomainBooking(resp.Booking),
		Reminders:          models.FromDomainReminders(resp.Reminders),
		CancelledReminders: resp.CancelledReminders,
	}
}
