package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/marsolucoes/lumia/internal/pkg/env"
)

// WebhookAuthMiddleware checks the payment provider's shared-secret bearer
// token. A missing server-side secret is a misconfiguration (500), not the
// caller's fault; a mismatch is the caller's (401).
func WebhookAuthMiddleware(secretEnvKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := strings.TrimSpace(env.GetEnv(secretEnvKey, ""))
		if secret == "" {
			log.Printf("webhook middleware: %s is not configured", secretEnvKey)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook secret not configured"})
		}

		token := extractBearerToken(c)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid webhook token"})
		}

		return c.Next()
	}
}
