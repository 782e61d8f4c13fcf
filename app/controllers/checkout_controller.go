package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/marsolucoes/lumia/app/models"
	"github.com/marsolucoes/lumia/internal/pkg/billing"
	"github.com/marsolucoes/lumia/internal/pkg/constants"
	"github.com/marsolucoes/lumia/internal/pkg/entitlements"
	"github.com/marsolucoes/lumia/internal/pkg/metrics/counter"
	"github.com/marsolucoes/lumia/internal/pkg/siomar"
	"github.com/marsolucoes/lumia/internal/pkg/usercontext"
	"github.com/marsolucoes/lumia/internal/pkg/utils"
)

// CheckoutController drives the checkout funnel: workspace bootstrap, trial
// start or paid payment-link creation, and the best-effort downstream sync.
type CheckoutController struct {
	svc      *billing.Service
	gateway  *billing.NetCredClient
	sync     *siomar.Service
	validate *validator.Validate
}

func NewCheckoutController(svc *billing.Service, gateway *billing.NetCredClient, sync *siomar.Service) *CheckoutController {
	return &CheckoutController{
		svc:      svc,
		gateway:  gateway,
		sync:     sync,
		validate: validator.New(),
	}
}

// HandleCreateCheckout processes POST /checkout.
func (ct *CheckoutController) HandleCreateCheckout(c *fiber.Ctx) error {
	var in billing.CheckoutInput
	if err := c.BodyParser(&in); err != nil {
		// Unparseable bodies are a contract break, not caller validation.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if err := ct.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	utils.BestEffort("checkout attempt counter", func() error {
		return counter.AddCheckoutAttempt(in.PlanID)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	ws, err := ct.svc.EnsureWorkspace(ctx, in.UserID, in.Name)
	if err != nil {
		return dataError(c, err)
	}

	if entitlements.IsFreeTier(in.PlanID) && !strings.EqualFold(in.Intent, "purchase") {
		sub, err := ct.svc.StartTrial(ctx, in.UserID, ws.ID, in.PlanID, in.Name, in.Email)
		if err != nil {
			return dataError(c, err)
		}

		ct.fireSync(ctx, in, ws, sub.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success":  true,
			"redirect": constants.TrialSuccessPath,
		})
	}

	sub, err := ct.svc.CreatePendingSubscription(ctx, in.UserID, ws.ID, in.PlanID)
	if err != nil {
		return dataError(c, err)
	}
	ref, err := ct.svc.PrepareCheckoutReference(ctx, sub)
	if err != nil {
		return dataError(c, err)
	}

	url, err := ct.gateway.CreateSubscriptionLink(ctx, billing.CreateSubscriptionLinkInput{
		ExternalID:    ref,
		Amount:        in.Amount,
		PlanID:        sub.PlanID,
		CustomerName:  in.Name,
		CustomerEmail: in.Email,
	})
	if err != nil {
		return dataError(c, err)
	}

	ct.fireSync(ctx, in, ws, sub.ID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"url":     url,
	})
}

// fireSync propagates the checkout's user into SIO_MAR. The outcome never
// affects the checkout response.
func (ct *CheckoutController) fireSync(ctx context.Context, in billing.CheckoutInput, ws *models.Workspace, subscriptionID string) {
	utils.BestEffort("siomar user sync", func() error {
		_, err := ct.sync.Sync(ctx, siomar.SyncInput{
			UserID:         in.UserID,
			Email:          in.Email,
			Name:           in.Name,
			WorkspaceID:    ws.ID,
			WorkspaceName:  ws.Name,
			PlanLevel:      entitlements.WorkspacePlanLevel(in.PlanID),
			SeatLimit:      entitlements.SeatLimit(in.PlanID),
			Role:           "admin",
			SubscriptionID: subscriptionID,
		})
		return err
	})
}

// HandleCancelSubscription processes POST /subscriptions/:id/cancel for the
// authenticated owner.
func (ct *CheckoutController) HandleCancelSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := ct.svc.CancelSubscription(ctx, c.Params("id"), userCtx.UserID, userCtx.Email, userCtx.Username); err != nil {
		return dataError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
