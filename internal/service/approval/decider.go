package approval

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
	"github.com/m04kA/VideoBookingService/pkg/types"
)

// ErrNotApproved возвращается при попытке перепланировать неподтверждённую бронь
var ErrNotApproved = errors.New("approval: booking is not approved")

// Action ручное действие менеджера/агента над бронью
type Action string

const (
	ActionApprove  Action = "approve"
	ActionDecline  Action = "decline"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Outcome исход первичного размещения брони
type Outcome string

const (
	OutcomeAutoApprove   Outcome = "auto_approve"
	OutcomeManagerReview Outcome = "manager_review"
	OutcomeAutoDecline   Outcome = "auto_decline"
)

// transitions единственные допустимые переходы статусов
var transitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.StatusPending:  {domain.StatusApproved, domain.StatusDeclined},
	domain.StatusApproved: {domain.StatusCompleted, domain.StatusCancelled},
}

var actionTargets = map[Action]domain.BookingStatus{
	ActionApprove:  domain.StatusApproved,
	ActionDecline:  domain.StatusDeclined,
	ActionComplete: domain.StatusCompleted,
	ActionCancel:   domain.StatusCancelled,
}

// Effects побочные эффекты, которые вызывающий обязан применить после перехода
type Effects struct {
	ScheduleReminders   bool
	CancelReminders     bool
	InvalidateRouteDays []time.Time
}

// Decision результат размещения брони
type Decision struct {
	Outcome Outcome
	Flag    domain.ReviewFlag
	Effects Effects
}

// Command ручной переход с данными для optimistic concurrency
type Command struct {
	Action            Action
	ExpectedStatus    domain.BookingStatus // пусто - не проверять
	ExpectedUpdatedAt time.Time            // zero - не проверять
	Notes             *string
}

// Decider реализует первичное размещение и машину состояний брони
type Decider struct {
	settings domain.ApprovalSettings
}

// NewDecider создает decider
func NewDecider(settings domain.ApprovalSettings) *Decider {
	return &Decider{settings: settings}
}

// CanTransition проверяет, разрешён ли переход from -> to
func CanTransition(from, to domain.BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TargetStatus возвращает статус, в который переводит действие
func TargetStatus(action Action) (domain.BookingStatus, bool) {
	status, ok := actionTargets[action]
	return status, ok
}

// Place размещает новую бронь по её PriorityScore
// Гибкость отменяет только авто-отказ, на авто-одобрение не влияет
func (d *Decider) Place(booking *domain.BookingRequest, now time.Time) (*Decision, error) {
	if booking.Status != "" && booking.Status != domain.StatusPending {
		return nil, &domain.InvalidTransitionError{From: booking.Status, To: domain.StatusPending}
	}
	if booking.PriorityScore < 0 || booking.PriorityScore > domain.MaxPriorityScore {
		return nil, &domain.ValidationError{Field: "priorityScore", Reason: "must be within [0, 100]"}
	}

	var decision Decision
	switch score := booking.PriorityScore; {
	case score >= d.settings.AutoApprovalThreshold:
		booking.Status = domain.StatusApproved
		decision = Decision{
			Outcome: OutcomeAutoApprove,
			Flag:    domain.FlagAutoApproved,
			Effects: Effects{
				ScheduleReminders:   true,
				InvalidateRouteDays: []time.Time{booking.ServiceDay()},
			},
		}
	case score >= d.settings.ManagerReviewThreshold:
		booking.Status = domain.StatusPending
		decision = Decision{Outcome: OutcomeManagerReview, Flag: domain.FlagManagerReview}
	case booking.IsFlexible:
		booking.Status = domain.StatusPending
		decision = Decision{Outcome: OutcomeManagerReview, Flag: domain.FlagFlexibleHold}
	default:
		booking.Status = domain.StatusDeclined
		decision = Decision{Outcome: OutcomeAutoDecline, Flag: domain.FlagAutoDeclined}
	}

	booking.ReviewFlag = decision.Flag
	booking.Touch(now)
	return &decision, nil
}

// Transition применяет ручное действие к брони
// При любой ошибке бронь остаётся без изменений
func (d *Decider) Transition(booking *domain.BookingRequest, cmd Command, now time.Time) (*Effects, error) {
	target, ok := TargetStatus(cmd.Action)
	if !ok {
		return nil, domain.NewInvalidValueError("action", cmd.Action)
	}
	if cmd.Notes != nil && len(*cmd.Notes) > domain.MaxManagerNotesLength {
		return nil, &domain.ValidationError{Field: "notes", Reason: fmt.Sprintf("exceeds %d characters", domain.MaxManagerNotesLength)}
	}

	// 1. Optimistic concurrency: бронь не должна была измениться с момента чтения
	if cmd.ExpectedStatus != "" && booking.Status != cmd.ExpectedStatus {
		return nil, &domain.ConcurrentModificationError{BookingID: booking.ID}
	}
	if !cmd.ExpectedUpdatedAt.IsZero() && !booking.UpdatedAt.Equal(cmd.ExpectedUpdatedAt) {
		return nil, &domain.ConcurrentModificationError{BookingID: booking.ID}
	}

	// 2. Машина состояний
	from := booking.Status
	if !CanTransition(from, target) {
		return nil, &domain.InvalidTransitionError{From: from, To: target}
	}

	booking.Status = target
	if cmd.Notes != nil {
		booking.ManagerNotes = cmd.Notes
	}
	booking.Touch(now)

	effects := &Effects{}
	if target == domain.StatusApproved {
		effects.ScheduleReminders = true
	}
	if from == domain.StatusApproved {
		effects.CancelReminders = true
	}
	if target == domain.StatusApproved || from == domain.StatusApproved {
		effects.InvalidateRouteDays = []time.Time{booking.ServiceDay()}
	}

	return effects, nil
}

// Reschedule назначает подтверждённой брони новую дату и время съемки
// Напоминания пересчитываются, маршруты старого и нового дня инвалидируются
func (d *Decider) Reschedule(booking *domain.BookingRequest, date time.Time, start types.TimeString, expectedUpdatedAt time.Time, now time.Time) (*Effects, error) {
	if date.IsZero() {
		return nil, domain.NewMissingFieldError("scheduledDate")
	}
	if err := start.Validate(); err != nil {
		return nil, &domain.ValidationError{Field: "scheduledTime", Reason: "must be HH:MM"}
	}
	if !expectedUpdatedAt.IsZero() && !booking.UpdatedAt.Equal(expectedUpdatedAt) {
		return nil, &domain.ConcurrentModificationError{BookingID: booking.ID}
	}
	if !booking.IsApproved() {
		return nil, fmt.Errorf("%w: status=%s", ErrNotApproved, booking.Status)
	}

	oldDay := booking.ServiceDay()
	day := domain.DateOnly(date)
	booking.ScheduledDate = &day
	booking.ScheduledTime = &start
	booking.Touch(now)

	days := []time.Time{oldDay}
	if newDay := booking.ServiceDay(); !newDay.Equal(oldDay) {
		days = append(days, newDay)
	}

	return &Effects{
		ScheduleReminders:   true,
		CancelReminders:     true,
		InvalidateRouteDays: days,
	}, nil
}
