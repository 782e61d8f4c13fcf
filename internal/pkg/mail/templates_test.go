package mail

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesVars(t *testing.T) {
	subject, body, err := Render(TemplatePaymentConfirmed, map[string]string{
		"name":           "Maria",
		"amount":         "R$ 2.158,80",
		"payment_method": "pix",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if subject != "Pagamento confirmado" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"Maria", "R$ 2.158,80", "pix"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
	if strings.Contains(body, "{{") {
		t.Errorf("body still carries placeholders: %s", body)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	_, body, err := Render(TemplateWelcome, map[string]string{"name": "Maria"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(body, "{{plan}}") {
		t.Errorf("unfilled placeholder should stay visible: %s", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, err := Render("no-such-template", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestEveryNamedTemplateResolves(t *testing.T) {
	for _, name := range []string{
		TemplateWelcome,
		TemplatePaymentConfirmed,
		TemplatePaymentExpired,
		TemplatePaymentRefunded,
		TemplateSubscriptionCanceled,
		TemplateTrialEnding,
		TemplateTrialExpired,
		TemplateTrialWarning,
		TemplateMemberInvite,
	} {
		if _, _, err := Render(name, nil); err != nil {
			t.Errorf("Render(%q) error = %v", name, err)
		}
	}
}
