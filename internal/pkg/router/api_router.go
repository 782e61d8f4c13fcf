package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/marsolucoes/lumia/app/controllers"
	"github.com/marsolucoes/lumia/internal/pkg/constants"
	"github.com/marsolucoes/lumia/internal/pkg/metrics/counter"
	"github.com/marsolucoes/lumia/internal/pkg/middleware"
)

// ApiRouter registers the payment and integration API. All handlers are
// injected at construction time.
type ApiRouter struct {
	checkout *controllers.CheckoutController
	webhook  *controllers.WebhookController
	invite   *controllers.InviteController
	sync     *controllers.SyncController
}

func NewApiRouter(
	checkout *controllers.CheckoutController,
	webhook *controllers.WebhookController,
	invite *controllers.InviteController,
	sync *controllers.SyncController,
) *ApiRouter {
	return &ApiRouter{
		checkout: checkout,
		webhook:  webhook,
		invite:   invite,
		sync:     sync,
	}
}

func (h *ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{Max: 120}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "lumia payments api",
		})
	})

	v1 := api.Group("/v1")

	v1.Post(constants.CheckoutRoute, h.checkout.HandleCreateCheckout)
	v1.Post(constants.SioMarSyncRoute, h.sync.HandleSyncUser)

	webhookAuth := middleware.WebhookAuthMiddleware("PAYMENT_WEBHOOK_SECRET")
	v1.Post(constants.WebhookNetCredRoute, webhookAuth, h.webhook.HandlePaymentWebhook)
	v1.Post(constants.WebhookAsaasRoute, webhookAuth, h.webhook.HandlePaymentWebhook)

	sessionAuth := middleware.SessionAuthMiddleware()
	v1.Post(constants.InviteMemberRoute, sessionAuth, h.invite.HandleInviteMember)
	v1.Post(constants.SubscriptionCancel, sessionAuth, h.checkout.HandleCancelSubscription)
	v1.Get(constants.BillingStatsRoute, sessionAuth, handleBillingStats)
}

// handleBillingStats dumps the Redis-side delivery and checkout counters.
func handleBillingStats(c *fiber.Ctx) error {
	webhooks, err := counter.WebhookEventCounts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read counters"})
	}
	checkouts, err := counter.CheckoutAttemptCounts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read counters"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"webhook_events":    webhooks,
		"checkout_attempts": checkouts,
	})
}
