package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/VideoBookingService/internal/domain"
)

// Категории оценки. Порядок в breakdown фиксирован и не зависит от значений
const (
	CategoryPropertyValue = "property_value"
	CategoryComplexity    = "complexity"
	CategoryAgentTier     = "agent_tier"
	CategoryFlexibility   = "flexibility"
	CategoryLeadTime      = "lead_time"
)

// Result итог оценки брони
type Result struct {
	Score     int
	Breakdown []domain.ScoreItem
}

// Scorer считает priority score брони
// Не хранит состояния кроме настроек, безопасен для конкурентного использования
type Scorer struct {
	settings domain.ScoringSettings
}

// NewScorer создает scorer с провалидированными настройками
func NewScorer(settings domain.ScoringSettings) *Scorer {
	return &Scorer{settings: settings}
}

// Score считает оценку брони в диапазоне [0, 100]
// Lead time отсчитывается от CreatedAt брони, поэтому повторный расчёт по той же записи
// всегда даёт тот же результат
func (s *Scorer) Score(booking *domain.BookingRequest, agent *domain.Agent) (*Result, error) {
	// 1. Валидация: при неполных данных оценка не считается вовсе
	if err := s.validate(booking, agent); err != nil {
		return nil, err
	}

	// 2. Считаем категории в фиксированном порядке
	items := []domain.ScoreItem{
		s.propertyValue(booking.PropertyValueTier),
		s.complexity(booking.ShootComplexity, booking.IsUrgent),
		s.agentTier(agent.Tier),
		s.flexibility(booking.IsFlexible),
		s.leadTime(booking.CreatedAt, booking.PreferredDate),
	}

	// 3. Суммируем с ограничением каждой категории её максимумом
	total := 0
	for i := range items {
		items[i].Points = clamp(items[i].Points, 0, items[i].Max)
		total += items[i].Points
	}

	return &Result{
		Score:     clamp(total, 0, domain.MaxPriorityScore),
		Breakdown: items,
	}, nil
}

// EstimateDuration возвращает ожидаемую длительность съемки в минутах
func (s *Scorer) EstimateDuration(complexity domain.ShootComplexity) (int, error) {
	minutes, ok := s.settings.DurationMinutes[complexity]
	if !ok {
		if complexity == "" {
			return 0, domain.NewMissingFieldError("shootComplexity")
		}
		return 0, domain.NewInvalidValueError("shootComplexity", complexity)
	}
	return minutes, nil
}

func (s *Scorer) validate(booking *domain.BookingRequest, agent *domain.Agent) error {
	if booking == nil {
		return domain.NewMissingFieldError("booking")
	}
	if booking.PropertyValueTier == "" {
		return domain.NewMissingFieldError("propertyValueTier")
	}
	if _, ok := s.settings.PropertyValuePoints[booking.PropertyValueTier]; !ok {
		return domain.NewInvalidValueError("propertyValueTier", booking.PropertyValueTier)
	}
	if booking.ShootComplexity == "" {
		return domain.NewMissingFieldError("shootComplexity")
	}
	if _, ok := s.settings.ComplexityPoints[booking.ShootComplexity]; !ok {
		return domain.NewInvalidValueError("shootComplexity", booking.ShootComplexity)
	}
	if booking.PreferredDate.IsZero() {
		return domain.NewMissingFieldError("preferredDate")
	}
	if booking.CreatedAt.IsZero() {
		return domain.NewMissingFieldError("createdAt")
	}
	if agent == nil {
		return domain.NewMissingFieldError("agent")
	}
	if agent.Tier == "" {
		return domain.NewMissingFieldError("agent.tier")
	}
	if _, ok := s.settings.AgentTierPoints[agent.Tier]; !ok {
		return domain.NewInvalidValueError("agent.tier", agent.Tier)
	}
	return nil
}

func (s *Scorer) propertyValue(tier domain.PropertyValueTier) domain.ScoreItem {
	return domain.ScoreItem{
		Category:    CategoryPropertyValue,
		Points:      s.settings.PropertyValuePoints[tier],
		Max:         s.settings.PropertyValueMax,
		Description: fmt.Sprintf("property value tier %s", tier),
	}
}

// complexity: простые съемки получают больше баллов, срочные - максимум категории
func (s *Scorer) complexity(c domain.ShootComplexity, urgent bool) domain.ScoreItem {
	item := domain.ScoreItem{
		Category:    CategoryComplexity,
		Points:      s.settings.ComplexityPoints[c],
		Max:         s.settings.ComplexityMax,
		Description: fmt.Sprintf("%s shoot", c),
	}
	if urgent {
		item.Points = s.settings.ComplexityMax
		item.Description = fmt.Sprintf("%s shoot flagged urgent", c)
	}
	return item
}

func (s *Scorer) agentTier(tier domain.AgentTier) domain.ScoreItem {
	return domain.ScoreItem{
		Category:    CategoryAgentTier,
		Points:      s.settings.AgentTierPoints[tier],
		Max:         s.settings.AgentTierMax,
		Description: fmt.Sprintf("%s agent", tier),
	}
}

func (s *Scorer) flexibility(flexible bool) domain.ScoreItem {
	item := domain.ScoreItem{
		Category:    CategoryFlexibility,
		Max:         s.settings.FlexibilityMax,
		Description: "fixed date",
	}
	if flexible {
		item.Points = s.settings.FlexibilityMax
		item.Description = "flexible date"
	}
	return item
}

// leadTime: баллы растут линейно с числом полных дней до даты и выходят на плато
func (s *Scorer) leadTime(submittedAt, preferred time.Time) domain.ScoreItem {
	days := wholeDaysBetween(submittedAt, preferred)
	if days < 0 {
		days = 0
	}
	capped := days
	if capped > s.settings.LeadTimePlateauDays {
		capped = s.settings.LeadTimePlateauDays
	}

	return domain.ScoreItem{
		Category:    CategoryLeadTime,
		Points:      s.settings.LeadTimeMax * capped / s.settings.LeadTimePlateauDays,
		Max:         s.settings.LeadTimeMax,
		Description: fmt.Sprintf("%d days notice", days),
	}
}

// wholeDaysBetween считает разницу в календарных днях в локации preferred
func wholeDaysBetween(from, to time.Time) int {
	fromDay := domain.DateOnly(from.In(to.Location()))
	toDay := domain.DateOnly(to)
	return int(math.Round(toDay.Sub(fromDay).Hours() / 24))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
