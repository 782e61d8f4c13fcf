package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/marsolucoes/lumia/internal/pkg/siomar"
)

// SyncController exposes the cross-project user sync as its own endpoint so
// other backends can push users into SIO_MAR directly.
type SyncController struct {
	svc *siomar.Service
}

func NewSyncController(svc *siomar.Service) *SyncController {
	return &SyncController{svc: svc}
}

// HandleSyncUser processes POST /integrations/siomar/sync.
func (sc *SyncController) HandleSyncUser(c *fiber.Ctx) error {
	var in siomar.SyncInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "invalid JSON body"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	created, err := sc.svc.Sync(ctx, in)
	if err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"created": created,
	})
}
