package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/VideoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VideoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VideoBookingService/internal/service/bookings/models"
)

// Service сервис чтения заявок
type Service struct {
	bookingRepo  BookingRepository
	reminderRepo ReminderRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	bookingRepo BookingRepository,
	reminderRepo ReminderRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		reminderRepo: reminderRepo,
		logger:       logger,
	}
}

// GetByID получает заявку по ID вместе с её напоминаниями
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	s.logger.Info("GetByID: fetching booking id=%s", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	reminders, err := s.reminderRepo.ListByBooking(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list reminders of booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - reminders error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBooking(booking)
	resp.Reminders = models.FromDomainReminders(reminders)

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return resp, nil
}

// ListDayBookings получает заявки одного дня съемки
// Опционально фильтрует по статусу
func (s *Service) ListDayBookings(ctx context.Context, req *models.GetDayBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListDayBookings: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("ListDayBookings: fetching bookings for date=%s, status=%v", filter.Date.Format(domain.DateFormat), req.Status)

	bookings, err := s.bookingRepo.ListByDay(ctx, filter)
	if err != nil {
		s.logger.Error("ListDayBookings: repository error for date=%s: %v", filter.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListDayBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListDayBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}
