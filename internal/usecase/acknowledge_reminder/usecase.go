package acknowledge_reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	reminderRepo "github.com/m04kA/VideoBookingService/internal/infra/storage/reminder"
)

// UseCase use case подтверждения доставки напоминания диспетчером
type UseCase struct {
	reminderRepo ReminderRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reminderRepo ReminderRepository, logger Logger) *UseCase {
	return &UseCase{
		reminderRepo: reminderRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит напоминание pending -> sent
// При сбое доставки снимает отметку dispatched_at, статус остается pending
// Отменённое напоминание остаётся отменённым, даже если диспетчер успел его доставить
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if strings.TrimSpace(req.ReminderID) == "" {
		return nil, domain.NewMissingFieldError("reminderId")
	}

	uc.logger.Info("AcknowledgeReminder: reminder=%s, failed=%t", req.ReminderID, req.Failed)

	entry, err := uc.reminderRepo.GetByID(ctx, req.ReminderID)
	if err != nil {
		if errors.Is(err, reminderRepo.ErrReminderNotFound) {
			uc.logger.Warn("AcknowledgeReminder: reminder id=%s not found", req.ReminderID)
			return nil, ErrReminderNotFound
		}
		uc.logger.Error("AcknowledgeReminder: failed to get reminder id=%s: %v", req.ReminderID, err)
		return nil, fmt.Errorf("%w: failed to get reminder: %v", ErrInternal, err)
	}

	if !entry.IsPending() {
		uc.logger.Warn("AcknowledgeReminder: reminder id=%s is %s", entry.ID, entry.Status)
		return nil, fmt.Errorf("%w: status=%s", ErrReminderNotPending, entry.Status)
	}

	now := uc.timeProvider.Now()
	if req.Failed {
		return uc.release(ctx, entry, req.Reason, now)
	}

	if err := uc.reminderRepo.MarkSent(ctx, entry.ID, now); err != nil {
		// Между чтением и записью напоминание отменили
		if errors.Is(err, reminderRepo.ErrReminderNotPending) {
			uc.logger.Warn("AcknowledgeReminder: reminder id=%s changed concurrently", entry.ID)
			return nil, ErrReminderNotPending
		}
		uc.logger.Error("AcknowledgeReminder: failed to mark reminder id=%s sent: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: failed to mark sent: %v", ErrInternal, err)
	}

	entry.Status = domain.ReminderSent
	entry.SentAt = &now
	entry.UpdatedAt = now

	uc.logger.Info("AcknowledgeReminder: reminder id=%s of booking id=%s sent", entry.ID, entry.BookingID)

	return &Response{Reminder: entry}, nil
}

func (uc *UseCase) release(ctx context.Context, entry *domain.ReminderEntry, reason string, now time.Time) (*Response, error) {
	if err := uc.reminderRepo.ReleaseDispatch(ctx, entry.ID, now); err != nil {
		if errors.Is(err, reminderRepo.ErrReminderNotPending) {
			uc.logger.Warn("AcknowledgeReminder: reminder id=%s changed concurrently", entry.ID)
			return nil, ErrReminderNotPending
		}
		uc.logger.Error("AcknowledgeReminder: failed to release reminder id=%s: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: failed to release dispatch: %v", ErrInternal, err)
	}

	entry.DispatchedAt = nil
	entry.UpdatedAt = now

	uc.logger.Warn("AcknowledgeReminder: delivery of reminder id=%s failed (%s), queued for redelivery", entry.ID, reason)

	return &Response{Reminder: entry}, nil
}
