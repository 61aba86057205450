package models

import "github.com/planriseapp/planrise/internal/constants"

// Quota tracks monthly usage of metered operations.
type Quota struct {
	Month         string `json:"month"` // YYYY-MM
	AIPlanUsed    int    `json:"ai_plan_used"`
	RebalanceUsed int    `json:"rebalance_used"`
}

// QuotaLimits holds the per-tier monthly allowances. A negative limit means unlimited.
type QuotaLimits struct {
	AIPlan    int
	Rebalance int
}

// LimitsForTier returns the monthly allowances for a plan tier.
func LimitsForTier(tier string) QuotaLimits {
	switch constants.PlanTier(tier) {
	case constants.TierProMonthly:
		return QuotaLimits{AIPlan: 6, Rebalance: 10}
	case constants.TierProYearly:
		return QuotaLimits{AIPlan: -1, Rebalance: -1}
	default:
		return QuotaLimits{AIPlan: 2, Rebalance: 2}
	}
}

// WithinLimit reports whether another use fits under the limit. A negative
// limit means unlimited.
func WithinLimit(limit, used int) bool {
	return limit < 0 || used < limit
}
