package billing

import "testing"

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"basico", "basico"},
		{"intermediario", "intermediario"},
		{"avancado", "avancado"},
		{"corporativo", "corporativo"},
		{"  Avancado ", "avancado"},
		{"enterprise", "basico"},
		{"", "basico"},
	}
	for _, tt := range tests {
		if got := normalizePlan(tt.in); got != tt.want {
			t.Errorf("normalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsKnownPlan(t *testing.T) {
	for _, plan := range []string{"basico", "intermediario", "avancado", "corporativo", " CORPORATIVO "} {
		if !isKnownPlan(plan) {
			t.Errorf("isKnownPlan(%q) = false, want true", plan)
		}
	}
	for _, plan := range []string{"", "free", "enterprise"} {
		if isKnownPlan(plan) {
			t.Errorf("isKnownPlan(%q) = true, want false", plan)
		}
	}
}

func TestIsEntitlingStatus(t *testing.T) {
	for _, status := range []string{"active", "trialing", "past_due", " Active "} {
		if !isEntitlingStatus(status) {
			t.Errorf("isEntitlingStatus(%q) = false, want true", status)
		}
	}
	for _, status := range []string{"pending", "canceled", ""} {
		if isEntitlingStatus(status) {
			t.Errorf("isEntitlingStatus(%q) = true, want false", status)
		}
	}
}
