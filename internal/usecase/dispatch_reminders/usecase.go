package dispatch_reminders

import (
	"context"
	"fmt"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// UseCase use case передачи наступивших напоминаний диспетчеру уведомлений
//
// Доставка at-least-once: если коммит не прошёл после успешной публикации,
// напоминание уйдет повторно. Диспетчер дедуплицирует по reminderId.
type UseCase struct {
	reminderRepo ReminderRepository
	publisher    Publisher
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reminderRepo ReminderRepository,
	publisher Publisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reminderRepo: reminderRepo,
		publisher:    publisher,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выгружает одну пачку наступивших напоминаний
// Напоминания остаются pending до подтверждения диспетчером
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultBatchSize
	}
	now := uc.timeProvider.Now()

	var dispatched int

	// Выборка, публикация и отметка в одной транзакции:
	// строки заблокированы, параллельный вызов возьмёт другую пачку
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		due, err := uc.reminderRepo.ListDue(txCtx, domain.DueRemindersFilter{Now: now, Limit: limit})
		if err != nil {
			uc.logger.Error("DispatchReminders: failed to list due reminders: %v", err)
			return fmt.Errorf("%w: failed to list due reminders: %v", ErrInternal, err)
		}
		if len(due) == 0 {
			return nil
		}

		if err := uc.publisher.Publish(txCtx, due); err != nil {
			uc.logger.Error("DispatchReminders: failed to publish %d reminders: %v", len(due), err)
			return fmt.Errorf("%w: %v", ErrPublish, err)
		}

		ids := make([]string, 0, len(due))
		for _, e := range due {
			ids = append(ids, e.ID)
		}
		marked, err := uc.reminderRepo.MarkDispatched(txCtx, ids, now)
		if err != nil {
			uc.logger.Error("DispatchReminders: failed to mark reminders dispatched: %v", err)
			return fmt.Errorf("%w: failed to mark dispatched: %v", ErrInternal, err)
		}
		if int(marked) != len(ids) {
			uc.logger.Warn("DispatchReminders: marked %d of %d reminders, the rest changed concurrently", marked, len(ids))
		}

		dispatched = len(due)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if dispatched > 0 {
		uc.metrics.ObserveRemindersDispatched(dispatched)
		uc.logger.Info("DispatchReminders: dispatched %d reminders", dispatched)
	}

	return &Response{Dispatched: dispatched}, nil
}
