package submit_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
	submitBooking "github.com/m04kA/VideoBookingService/internal/usecase/submit_booking"
)

// CoordinatesRequest координаты адреса
type CoordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	AgentID           string              `json:"agentId"`
	PropertyValueTier string              `json:"propertyValueTier"`
	ShootComplexity   string              `json:"shootComplexity"`
	IsUrgent          bool                `json:"isUrgent"`
	PreferredDate     string              `json:"preferredDate"` // "2026-05-20"
	BackupDates       []string            `json:"backupDates,omitempty"`
	IsFlexible        bool                `json:"isFlexible"`
	Address           string              `json:"address"`
	Coordinates       *CoordinatesRequest `json:"coordinates,omitempty"`
}

// SubmitBookingResponse HTTP response model
type SubmitBookingResponse struct {
	Booking   *models.BookingResponse   `json:"booking"`
	Outcome   string                    `json:"outcome"`
	Reminders []models.ReminderResponse `json:"reminders"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Пустой preferredDate не разбирается: обязательность проверяет use case
func (r *SubmitBookingRequest) ToUseCaseRequest() (*submitBooking.Request, error) {
	var preferred time.Time
	if r.PreferredDate != "" {
		d, err := parseDate("preferredDate", r.PreferredDate)
		if err != nil {
			return nil, err
		}
		preferred = d
	}

	backup := make([]time.Time, 0, len(r.BackupDates))
	for i, s := range r.BackupDates {
		d, err := parseDate(fmt.Sprintf("backupDates[%d]", i), s)
		if err != nil {
			return nil, err
		}
		backup = append(backup, d)
	}

	req := &submitBooking.Request{
		AgentID:           r.AgentID,
		PropertyValueTier: domain.PropertyValueTier(r.PropertyValueTier),
		ShootComplexity:   domain.ShootComplexity(r.ShootComplexity),
		IsUrgent:          r.IsUrgent,
		PreferredDate:     preferred,
		BackupDates:       backup,
		IsFlexible:        r.IsFlexible,
		Address:           r.Address,
	}
	if r.Coordinates != nil {
		req.Coordinates = &domain.Coordinates{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng}
	}

	return req, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("must be %s, got %q", domain.DateFormat, value)}
	}
	return d, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		Booking:   models.FromDomainBooking(resp.Booking),
		Outcome:   string(resp.Outcome),
		Reminders: models.FromDomainReminders(resp.Reminders),
	}
}
