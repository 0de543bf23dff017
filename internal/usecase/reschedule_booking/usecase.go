package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VideoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VideoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
	"github.com/m04kA/VideoBookingService/internal/service/reminders"
)

// UseCase use case переноса подтверждённой съемки
type UseCase struct {
	bookingRepo  BookingRepository
	reminderRepo ReminderRepository
	routeCache   RouteCache
	decider      *approval.Decider
	scheduler    *reminders.Scheduler
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reminderRepo ReminderRepository,
	routeCache RouteCache,
	decider *approval.Decider,
	scheduler *reminders.Scheduler,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		reminderRepo: reminderRepo,
		routeCache:   routeCache,
		decider:      decider,
		scheduler:    scheduler,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute назначает заявке новые дату и время
// Старые pending напоминания отменяются, новый набор строится от нового времени;
// после переноса на каждый offset приходится не больше одного активного напоминания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, date=%s, time=%s",
		req.BookingID, req.ScheduledDate.Format(domain.DateFormat), req.ScheduledTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		booking   *domain.BookingRequest
		effects   *approval.Effects
		fresh     []domain.ReminderEntry
		cancelled int64
	)

	// 3. Перенос и замена напоминаний в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		readAt := booking.UpdatedAt
		effects, err = uc.decider.Reschedule(booking, req.ScheduledDate, req.ScheduledTime, req.ExpectedUpdatedAt, now)
		if err != nil {
			if errors.Is(err, approval.ErrNotApproved) {
				uc.logger.Warn("RescheduleBooking: booking id=%s is %s", booking.ID, booking.Status)
				return fmt.Errorf("%w: status=%s", ErrNotApproved, booking.Status)
			}
			uc.logger.Warn("RescheduleBooking: booking id=%s: %v", booking.ID, err)
			return err
		}

		if err := uc.bookingRepo.UpdateSchedule(txCtx, booking, readAt); err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				uc.logger.Warn("RescheduleBooking: booking id=%s changed concurrently", booking.ID)
				return err
			}
			uc.logger.Error("RescheduleBooking: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		existing, err := uc.reminderRepo.ListByBooking(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to list reminders of booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to list reminders: %v", ErrInternal, err)
		}

		var stale []domain.ReminderEntry
		stale, fresh, err = uc.scheduler.Reschedule(booking, existing, now)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to reschedule reminders of booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reschedule reminders: %v", ErrInternal, err)
		}

		ids := make([]string, 0, len(stale))
		for _, e := range stale {
			ids = append(ids, e.ID)
		}
		if cancelled, err = uc.reminderRepo.CancelPending(txCtx, ids, now); err != nil {
			uc.logger.Error("RescheduleBooking: failed to cancel reminders of booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel reminders: %v", ErrInternal, err)
		}
		if err := uc.reminderRepo.CreateBatch(txCtx, fresh); err != nil {
			uc.logger.Error("RescheduleBooking: failed to create reminders of booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to create reminders: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Инвалидируем маршруты старого и нового дня
	if err := uc.routeCache.Invalidate(ctx, effects.InvalidateRouteDays...); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to invalidate route cache: %v", err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%s moved to %s %s, reminders cancelled=%d created=%d",
		booking.ID, booking.ScheduledDate.Format(domain.DateFormat), booking.ScheduledTime, cancelled, len(fresh))

	return &Response{
		Booking:            booking,
		Reminders:          fresh,
		CancelledReminders: cancelled,
		InvalidatedDays:    effects.InvalidateRouteDays,
	}, nil
}
