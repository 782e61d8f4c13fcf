package entitlements

import "strings"

type Plan string

const (
	PlanBasico        Plan = "basico"
	PlanIntermediario Plan = "intermediario"
	PlanAvancado      Plan = "avancado"
	PlanCorporativo   Plan = "corporativo"
)

// NormalizePlan folds unknown plan identifiers onto the free tier.
func NormalizePlan(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanIntermediario):
		return PlanIntermediario
	case string(PlanAvancado):
		return PlanAvancado
	case string(PlanCorporativo):
		return PlanCorporativo
	default:
		return PlanBasico
	}
}

// IsFreeTier reports whether the plan is the trial-eligible entry tier.
func IsFreeTier(plan string) bool {
	return NormalizePlan(plan) == PlanBasico
}

// SeatLimit returns how many members a workspace on the given plan may hold,
// including the owner.
func SeatLimit(plan string) int {
	switch NormalizePlan(plan) {
	case PlanCorporativo:
		return 10
	case PlanAvancado:
		return 5
	case PlanIntermediario:
		return 3
	default:
		return 1
	}
}

// WorkspacePlanLevel maps a subscription plan onto the coarse workspace
// level used by the SIO_MAR side.
func WorkspacePlanLevel(plan string) string {
	if IsFreeTier(plan) {
		return "free"
	}
	return "pro"
}
