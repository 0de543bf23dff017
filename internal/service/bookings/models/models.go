package models

import (
	"errors"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidDate возвращается при пустой дате
	ErrInvalidDate = errors.New("date is required")
)

// Request модели

// GetDayBookingsRequest запрос на получение заявок дня
type GetDayBookingsRequest struct {
	Date   time.Time `json:"date"`
	Status *string   `json:"status,omitempty"` // Фильтр по статусу (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDayBookingsRequest) ToDomainFilter() (domain.DayBookingsFilter, error) {
	if r.Date.IsZero() {
		return domain.DayBookingsFilter{}, ErrInvalidDate
	}
	filter := domain.DayBookingsFilter{Date: domain.DateOnly(r.Date)}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// CoordinatesResponse координаты адреса
type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ScoreItemResponse строка разбивки оценки
type ScoreItemResponse struct {
	Category    string `json:"category"`
	Points      int    `json:"points"`
	Max         int    `json:"max"`
	Description string `json:"description"`
}

// ReminderResponse напоминание о съемке
type ReminderResponse struct {
	ID            string     `json:"id"`
	OffsetMinutes int        `json:"offsetMinutes"`
	ScheduledAt   time.Time  `json:"scheduledAt"`
	Status        string     `json:"status"`
	DispatchedAt  *time.Time `json:"dispatchedAt,omitempty"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
}

// BookingResponse ответ с данными заявки
type BookingResponse struct {
	ID                string               `json:"id"`
	AgentID           string               `json:"agentId"`
	PropertyValueTier string               `json:"propertyValueTier"`
	ShootComplexity   string               `json:"shootComplexity"`
	IsUrgent          bool                 `json:"isUrgent"`
	PreferredDate     string               `json:"preferredDate"` // "2026-05-20"
	BackupDates       []string             `json:"backupDates"`
	IsFlexible        bool                 `json:"isFlexible"`
	Address           string               `json:"address"`
	Coordinates       *CoordinatesResponse `json:"coordinates,omitempty"`

	EstimatedDurationMinutes int                 `json:"estimatedDurationMinutes"`
	PriorityScore            int                 `json:"priorityScore"`
	ScoreBreakdown           []ScoreItemResponse `json:"scoreBreakdown"`

	Status       string  `json:"status"`
	ReviewFlag   string  `json:"reviewFlag"`
	ManagerNotes *string `json:"managerNotes,omitempty"`

	ScheduledDate *string `json:"scheduledDate,omitempty"`
	ScheduledTime *string `json:"scheduledTime,omitempty"` // "10:30"

	Reminders []ReminderResponse `json:"reminders,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком заявок
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.BookingRequest) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                       b.ID,
		AgentID:                  b.AgentID,
		PropertyValueTier:        string(b.PropertyValueTier),
		ShootComplexity:          string(b.ShootComplexity),
		IsUrgent:                 b.IsUrgent,
		PreferredDate:            b.PreferredDate.Format(domain.DateFormat),
		BackupDates:              make([]string, 0, len(b.BackupDates)),
		IsFlexible:               b.IsFlexible,
		Address:                  b.Address,
		EstimatedDurationMinutes: b.EstimatedDurationMinutes,
		PriorityScore:            b.PriorityScore,
		ScoreBreakdown:           make([]ScoreItemResponse, 0, len(b.ScoreBreakdown)),
		Status:                   string(b.Status),
		ReviewFlag:               string(b.ReviewFlag),
		ManagerNotes:             b.ManagerNotes,
		CreatedAt:                b.CreatedAt,
		UpdatedAt:                b.UpdatedAt,
	}

	for _, d := range b.BackupDates {
		resp.BackupDates = append(resp.BackupDates, d.Format(domain.DateFormat))
	}
	if b.Coordinates != nil {
		resp.Coordinates = &CoordinatesResponse{Lat: b.Coordinates.Lat, Lng: b.Coordinates.Lng}
	}
	for _, item := range b.ScoreBreakdown {
		resp.ScoreBreakdown = append(resp.ScoreBreakdown, ScoreItemResponse(item))
	}

	// Назначенные дата и время только после подтверждения
	if b.ScheduledDate != nil {
		date := b.ScheduledDate.Format(domain.DateFormat)
		resp.ScheduledDate = &date
	}
	if b.ScheduledTime != nil {
		start := b.ScheduledTime.String()
		resp.ScheduledTime = &start
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.BookingRequest) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainReminder конвертирует напоминание в DTO
func FromDomainReminder(e domain.ReminderEntry) ReminderResponse {
	return ReminderResponse{
		ID:            e.ID,
		OffsetMinutes: int(e.Offset / time.Minute),
		ScheduledAt:   e.ScheduledAt,
		Status:        string(e.Status),
		DispatchedAt:  e.DispatchedAt,
		SentAt:        e.SentAt,
	}
}

// FromDomainReminders конвертирует список напоминаний в DTO
func FromDomainReminders(entries []domain.ReminderEntry) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromDomainReminder(e))
	}
	return out
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusApproved,
		domain.StatusDeclined,
		domain.StatusCompleted,
		domain.StatusCancelled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
