package billing

// TransitionInput is the normalized input for a webhook-driven subscription
// transition. SubscriptionID may be empty when the inbound event's external
// reference could not be correlated to a local record.
type TransitionInput struct {
	SubscriptionID string
	CustomerEmail  string
	CustomerName   string
	Amount         int64
	PaymentMethod  string
}

// PaymentEventInput is the normalized input for audit log persistence.
type PaymentEventInput struct {
	SubscriptionID string
	ExternalID     string
	EventType      string
	Amount         int64
	PaymentMethod  string
	PayloadJSON    string
}

// CheckoutInput carries a checkout request after JSON decoding.
type CheckoutInput struct {
	PlanID string `json:"planId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Amount int64  `json:"amount"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Intent string `json:"intent"`
}

// Mailer sends a templated email. Satisfied by mail.TemplateMailer; kept as
// an interface so transition tests can observe sends without SMTP.
type Mailer interface {
	SendTemplate(to, template string, vars map[string]string) error
}
