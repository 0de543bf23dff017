package agentdirectory

import "github.com/m04kA/VideoBookingService/internal/domain"

// Agent модель агента из справочника агентов
type Agent struct {
	ID               string `json:"id"`
	Tier             string `json:"tier"` // standard, premium, elite
	MonthlyQuota     int    `json:"monthly_quota"`
	MonthlyUsed      int    `json:"monthly_used"`
	PerformanceScore int    `json:"performance_score"`
}

// ToDomain конвертирует ответ справочника в доменную модель
func (a *Agent) ToDomain() *domain.Agent {
	return &domain.Agent{
		ID:               a.ID,
		Tier:             domain.AgentTier(a.Tier),
		MonthlyQuota:     a.MonthlyQuota,
		MonthlyUsed:      a.MonthlyUsed,
		PerformanceScore: a.PerformanceScore,
	}
}
