package controllers

import "github.com/gofiber/fiber/v2"

// dataError maps a domain-level failure onto the caller-error response shape.
func dataError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
