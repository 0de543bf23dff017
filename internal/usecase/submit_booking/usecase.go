package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/VideoBookingService/internal/domain"
	agentClient "github.com/m04kA/VideoBookingService/internal/integrations/agentdirectory"
	"github.com/m04kA/VideoBookingService/internal/service/approval"
	"github.com/m04kA/VideoBookingService/internal/service/reminders"
	"github.com/m04kA/VideoBookingService/internal/service/scoring"
)

// UseCase use case приёма новой заявки на съемку
type UseCase struct {
	bookingRepo  BookingRepository
	reminderRepo ReminderRepository
	agents       AgentDirectory
	routeCache   RouteCache
	scorer       *scoring.Scorer
	decider      *approval.Decider
	scheduler    *reminders.Scheduler
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	newID        func() string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	reminderRepo ReminderRepository,
	agents AgentDirectory,
	routeCache RouteCache,
	scorer *scoring.Scorer,
	decider *approval.Decider,
	scheduler *reminders.Scheduler,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		reminderRepo: reminderRepo,
		agents:       agents,
		routeCache:   routeCache,
		scorer:       scorer,
		decider:      decider,
		scheduler:    scheduler,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// Execute оценивает заявку, размещает её и сохраняет вместе с напоминаниями
// Заявка и её напоминания пишутся в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: agent=%s, tier=%s, complexity=%s, date=%s, flexible=%t",
		req.AgentID, req.PropertyValueTier, req.ShootComplexity, req.PreferredDate.Format(domain.DateFormat), req.IsFlexible)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем контекст агента; без него заявку не оцениваем
	agent, err := uc.agents.GetAgent(ctx, req.AgentID)
	if err != nil {
		if errors.Is(err, agentClient.ErrAgentNotFound) {
			uc.logger.Warn("SubmitBooking: agent id=%s not found", req.AgentID)
			return nil, ErrAgentNotFound
		}
		uc.logger.Error("SubmitBooking: failed to get agent id=%s: %v", req.AgentID, err)
		return nil, fmt.Errorf("%w: %v", ErrAgentUnavailable, err)
	}
	if agent.QuotaExhausted() {
		uc.logger.Warn("SubmitBooking: agent id=%s exhausted monthly quota (%d/%d)", agent.ID, agent.MonthlyUsed, agent.MonthlyQuota)
	}

	booking := &domain.BookingRequest{
		ID:                uc.newID(),
		AgentID:           strings.TrimSpace(req.AgentID),
		PropertyValueTier: req.PropertyValueTier,
		ShootComplexity:   req.ShootComplexity,
		IsUrgent:          req.IsUrgent,
		PreferredDate:     domain.DateOnly(req.PreferredDate),
		BackupDates:       dateOnlyAll(req.BackupDates),
		IsFlexible:        req.IsFlexible,
		Address:           strings.TrimSpace(req.Address),
		Coordinates:       req.Coordinates,
		Status:            domain.StatusPending,
		CreatedAt:         now.Truncate(time.Microsecond),
	}

	// 4. Длительность и оценка
	duration, err := uc.scorer.EstimateDuration(booking.ShootComplexity)
	if err != nil {
		uc.logger.Warn("SubmitBooking: %v", err)
		return nil, err
	}
	booking.EstimatedDurationMinutes = duration

	score, err := uc.scorer.Score(booking, agent)
	if err != nil {
		uc.logger.Warn("SubmitBooking: scoring failed: %v", err)
		return nil, err
	}
	booking.PriorityScore = score.Score
	booking.ScoreBreakdown = score.Breakdown

	// 5. Первичное размещение
	decision, err := uc.decider.Place(booking, now)
	if err != nil {
		uc.logger.Error("SubmitBooking: placement failed: %v", err)
		return nil, fmt.Errorf("%w: place booking: %v", ErrInternal, err)
	}

	// 6. Напоминания только для одобренной заявки
	var entries []domain.ReminderEntry
	if decision.Effects.ScheduleReminders {
		entries, err = uc.scheduler.Schedule(booking, now)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to schedule reminders for booking id=%s: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: schedule reminders: %v", ErrInternal, err)
		}
	}

	// 7. Сохраняем заявку и напоминания в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		if err := uc.reminderRepo.CreateBatch(txCtx, entries); err != nil {
			uc.logger.Error("SubmitBooking: failed to create reminders: %v", err)
			return fmt.Errorf("%w: failed to create reminders: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 8. Маршрут дня устарел; ошибка кэша не отменяет сохранённую заявку
	if days := decision.Effects.InvalidateRouteDays; len(days) > 0 {
		if err := uc.routeCache.Invalidate(ctx, days...); err != nil {
			uc.logger.Warn("SubmitBooking: failed to invalidate route cache: %v", err)
		}
	}

	uc.metrics.ObserveDecision(string(decision.Outcome))
	for _, e := range entries {
		uc.metrics.ObserveReminderScheduled(string(e.Status))
	}

	uc.logger.Info("SubmitBooking: booking id=%s score=%d outcome=%s status=%s reminders=%d",
		booking.ID, booking.PriorityScore, decision.Outcome, booking.Status, len(entries))

	return &Response{
		Booking:   booking,
		Outcome:   decision.Outcome,
		Reminders: entries,
	}, nil
}
