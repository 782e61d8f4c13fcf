package mail

import (
	"fmt"
	"strings"
)

// Template identifiers. The webhook reconciler, checkout flow, invite flow
// and trial scheduler all address templates through these names.
const (
	TemplateWelcome              = "welcome"
	TemplatePaymentConfirmed     = "payment-confirmed"
	TemplatePaymentExpired       = "payment-expired"
	TemplatePaymentRefunded      = "payment-refunded"
	TemplateSubscriptionCanceled = "subscription-canceled"
	TemplateTrialEnding          = "trial-ending"
	TemplateTrialExpired         = "trial-expired"
	TemplateTrialWarning         = "trial-warning"
	TemplateMemberInvite         = "member-invite"
)

type template struct {
	Subject string
	Body    string
}

var templates = map[string]template{
	TemplateWelcome: {
		Subject: "Bem-vindo ao LUMIA, {{name}}!",
		Body:    "<p>Olá {{name}},</p><p>Seu período de teste do plano {{plan}} começou. Aproveite os próximos 7 dias!</p>",
	},
	TemplatePaymentConfirmed: {
		Subject: "Pagamento confirmado",
		Body:    "<p>Olá {{name}},</p><p>Recebemos seu pagamento de {{amount}} ({{payment_method}}). Sua assinatura está ativa.</p>",
	},
	TemplatePaymentExpired: {
		Subject: "Pagamento expirado",
		Body:    "<p>Olá {{name}},</p><p>O pagamento de {{amount}} expirou antes de ser concluído. Gere um novo link para continuar.</p>",
	},
	TemplatePaymentRefunded: {
		Subject: "Pagamento estornado",
		Body:    "<p>Olá {{name}},</p><p>O valor de {{amount}} foi estornado e sua assinatura foi cancelada.</p>",
	},
	TemplateSubscriptionCanceled: {
		Subject: "Assinatura cancelada",
		Body:    "<p>Olá {{name}},</p><p>Sua assinatura foi cancelada. Você pode reativá-la a qualquer momento.</p>",
	},
	TemplateTrialEnding: {
		Subject: "Seu período de teste está acabando",
		Body:    "<p>Olá {{name}},</p><p>Seu teste termina em {{days_left}} dia(s). Assine para não perder o acesso.</p>",
	},
	TemplateTrialExpired: {
		Subject: "Seu período de teste terminou",
		Body:    "<p>Olá {{name}},</p><p>Seu período de teste terminou. Assine um plano para continuar usando o LUMIA.</p>",
	},
	TemplateTrialWarning: {
		Subject: "Faltam 2 dias para o fim do seu teste",
		Body:    "<p>Olá {{name}},</p><p>Seu período de teste termina em breve. Garanta já a continuidade do seu acesso.</p>",
	},
	TemplateMemberInvite: {
		Subject: "Você foi convidado para o workspace {{workspace}}",
		Body:    "<p>Olá,</p><p>Você foi convidado para o workspace {{workspace}}. Acesse com a senha temporária: <b>{{temp_password}}</b></p>",
	},
}

// Render resolves a template and substitutes {{key}} placeholders from vars.
// Unknown placeholders are left untouched.
func Render(name string, vars map[string]string) (subject, body string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template: %s", name)
	}
	return substitute(tpl.Subject, vars), substitute(tpl.Body, vars), nil
}

func substitute(s string, vars map[string]string) string {
	for key, value := range vars {
		s = strings.ReplaceAll(s, "{{"+key+"}}", value)
	}
	return s
}

// TemplateMailer renders named templates and delivers them over SMTP.
type TemplateMailer struct{}

func NewTemplateMailer() *TemplateMailer {
	return &TemplateMailer{}
}

// SendTemplate renders and sends one templated email.
func (m *TemplateMailer) SendTemplate(to, name string, vars map[string]string) error {
	subject, body, err := Render(name, vars)
	if err != nil {
		return err
	}
	return SendMail(to, subject, body)
}
