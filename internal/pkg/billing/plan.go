package billing

import (
	"strings"

	"github.com/marsolucoes/lumia/internal/pkg/entitlements"
)

func normalizePlan(plan string) string {
	return string(entitlements.NormalizePlan(plan))
}

// isKnownPlan reports whether the identifier names one of the sellable plans
// before normalization folds it onto the free tier.
func isKnownPlan(plan string) bool {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(entitlements.PlanBasico),
		string(entitlements.PlanIntermediario),
		string(entitlements.PlanAvancado),
		string(entitlements.PlanCorporativo):
		return true
	default:
		return false
	}
}

func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing", "past_due":
		return true
	default:
		return false
	}
}
