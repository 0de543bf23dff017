package domain

// AgentTier is the contractual service level of a real-estate agent
type AgentTier string

const (
	AgentStandard AgentTier = "standard"
	AgentPremium  AgentTier = "premium"
	AgentElite    AgentTier = "elite"
)

// Agent is the scoring context supplied by the agent directory. Read-only here.
type Agent struct {
	ID               string
	Tier             AgentTier
	MonthlyQuota     int
	MonthlyUsed      int
	PerformanceScore int // 0-100
}

// QuotaExhausted returns true if the agent used up the monthly quota
func (a *Agent) QuotaExhausted() bool {
	return a.MonthlyQuota > 0 && a.MonthlyUsed >= a.MonthlyQuota
}
