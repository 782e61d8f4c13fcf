package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/marsolucoes/lumia/internal/pkg/billing"
	"github.com/marsolucoes/lumia/internal/pkg/metrics/counter"
	"github.com/marsolucoes/lumia/internal/pkg/utils"
)

// webhookEnvelope is the provider's event shape. Asaas-style payloads use
// external_id, NetCred uses externalId; both are accepted.
type webhookEnvelope struct {
	Type string      `json:"type"`
	Data webhookData `json:"data"`
}

type webhookData struct {
	ExternalID      string `json:"externalId"`
	ExternalIDSnake string `json:"external_id"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerName    string `json:"customerName"`
	Amount          int64  `json:"amount"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (d webhookData) externalID() string {
	if d.ExternalID != "" {
		return d.ExternalID
	}
	return d.ExternalIDSnake
}

// WebhookController turns payment-provider event deliveries into subscription
// state transitions. Every delivery lands in the audit log before any
// transition runs.
type WebhookController struct {
	svc *billing.Service
}

func NewWebhookController(svc *billing.Service) *WebhookController {
	return &WebhookController{svc: svc}
}

// HandlePaymentWebhook processes POST /webhooks/netcred and /webhooks/asaas.
func (w *WebhookController) HandlePaymentWebhook(c *fiber.Ctx) error {
	var envelope webhookEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invalid JSON body"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	externalID := envelope.Data.externalID()
	subscriptionID := billing.DecodeExternalReference(externalID)

	utils.BestEffort("webhook event counter", func() error {
		return counter.AddWebhookEvent(envelope.Type)
	})
	utils.BestEffort("payment event audit", func() error {
		return w.svc.RecordPaymentEvent(ctx, billing.PaymentEventInput{
			SubscriptionID: subscriptionID,
			ExternalID:     externalID,
			EventType:      envelope.Type,
			Amount:         envelope.Data.Amount,
			PaymentMethod:  envelope.Data.PaymentMethod,
			PayloadJSON:    string(c.Body()),
		})
	})

	in := billing.TransitionInput{
		SubscriptionID: subscriptionID,
		CustomerEmail:  envelope.Data.CustomerEmail,
		CustomerName:   envelope.Data.CustomerName,
		Amount:         envelope.Data.Amount,
		PaymentMethod:  envelope.Data.PaymentMethod,
	}

	var err error
	switch strings.TrimSpace(envelope.Type) {
	case "PAYMENT_PAID", "SUBSCRIPTION_PAID":
		err = w.svc.ApplyPaymentPaid(ctx, in)
	case "PAYMENT_EXPIRED":
		err = w.svc.ApplyPaymentExpired(ctx, in)
	case "PAYMENT_REFUNDED", "CHARGEBACK":
		err = w.svc.ApplyPaymentRefunded(ctx, in)
	case "SUBSCRIPTION_CANCELED":
		err = w.svc.ApplySubscriptionCanceled(ctx, in)
	case "SUBSCRIPTION_RENEWED":
		err = w.svc.ApplySubscriptionRenewed(ctx, in)
	default:
		log.Infof("ignoring unhandled webhook event type %q", envelope.Type)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
	}
	if err != nil {
		return dataError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
