package review_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/VideoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/VideoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
	"github.com/m04kA/VideoBookingService/internal/service/reminders"
)

// UseCase use case ручных действий менеджера: approve, decline, complete, cancel
type UseCase struct {
	bookingRepo  BookingRepository
	reminderRepo ReminderRepository
	routeCache   RouteCache
	decider      *approval.Decider
	scheduler    *reminders.Scheduler
	txManager    TransactionManager
	metrics      Metrics
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
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		reminderRepo: reminderRepo,
		routeCache:   routeCache,
		decider:      decider,
		scheduler:    scheduler,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute применяет действие к заявке
// Переход, сохранение и изменения напоминаний выполняются в одной транзакции;
// при параллельном изменении заявки возвращается ConcurrentModificationError
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	uc.logger.Info("ReviewBooking: booking=%s, action=%s", req.BookingID, req.Action)

	defer func() {
		uc.metrics.ObserveTransition(string(req.Action), resultLabel(err))
	}()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReviewBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		booking   *domain.BookingRequest
		effects   *approval.Effects
		previous  domain.BookingStatus
		entries   []domain.ReminderEntry
		cancelled int64
	)

	// 3. Переход статуса и его эффекты в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем заявку с блокировкой строки
		var err error
		booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ReviewBooking: booking id=%s not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ReviewBooking: failed to get booking id=%s: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 3.2. Машина состояний; при ошибке заявка не меняется
		previous = booking.Status
		readAt := booking.UpdatedAt
		effects, err = uc.decider.Transition(booking, approval.Command{
			Action:            req.Action,
			ExpectedStatus:    req.ExpectedStatus,
			ExpectedUpdatedAt: req.ExpectedUpdatedAt,
			Notes:             req.Notes,
		}, now)
		if err != nil {
			uc.logger.Warn("ReviewBooking: booking id=%s: %v", booking.ID, err)
			return err
		}

		// 3.3. Сохраняем только если строка не менялась с момента чтения
		if err := uc.bookingRepo.UpdateStatus(txCtx, booking, previous, readAt); err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				uc.logger.Warn("ReviewBooking: booking id=%s changed concurrently", booking.ID)
				return err
			}
			uc.logger.Error("ReviewBooking: failed to update booking id=%s: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		// 3.4. Бронь покинула расписание - отменяем ожидающие напоминания
		if effects.CancelReminders {
			existing, err := uc.reminderRepo.ListByBooking(txCtx, booking.ID)
			if err != nil {
				uc.logger.Error("ReviewBooking: failed to list reminders of booking id=%s: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to list reminders: %v", ErrInternal, err)
			}
			cancelled, err = uc.reminderRepo.CancelPending(txCtx, reminderIDs(uc.scheduler.Cancel(existing, now)), now)
			if err != nil {
				uc.logger.Error("ReviewBooking: failed to cancel reminders of booking id=%s: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to cancel reminders: %v", ErrInternal, err)
			}
		}

		// 3.5. Бронь вошла в расписание - планируем напоминания
		if effects.ScheduleReminders {
			entries, err = uc.scheduler.Schedule(booking, now)
			if err != nil {
				uc.logger.Error("ReviewBooking: failed to schedule reminders of booking id=%s: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to schedule reminders: %v", ErrInternal, err)
			}
			if err := uc.reminderRepo.CreateBatch(txCtx, entries); err != nil {
				uc.logger.Error("ReviewBooking: failed to create reminders of booking id=%s: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to create reminders: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Маршрут дня устарел; ошибка кэша не отменяет переход
	if len(effects.InvalidateRouteDays) > 0 {
		if err := uc.routeCache.Invalidate(ctx, effects.InvalidateRouteDays...); err != nil {
			uc.logger.Warn("ReviewBooking: failed to invalidate route cache: %v", err)
		}
	}
	for _, e := range entries {
		uc.metrics.ObserveReminderScheduled(string(e.Status))
	}

	uc.logger.Info("ReviewBooking: booking id=%s %s -> %s, reminders scheduled=%d cancelled=%d",
		booking.ID, previous, booking.Status, len(entries), cancelled)

	return &Response{
		Booking:            booking,
		PreviousStatus:     previous,
		Reminders:          entries,
		CancelledReminders: cancelled,
	}, nil
}

func reminderIDs(entries []domain.ReminderEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
