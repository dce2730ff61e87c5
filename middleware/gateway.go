// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// WebhookAuthMiddleware validates the shared token the custody provider is
// configured to send with every callback.
func WebhookAuthMiddleware() fiber.Handler {
	expectedToken := os.Getenv("WEBHOOK_TOKEN")
	if expectedToken == "" {
		log.Fatal("❌ WEBHOOK_TOKEN is not set — service cannot authenticate custody callbacks")
	}

	return func(c *fiber.Ctx) error {
		token := c.Get("X-Webhook-Token")
		if token == "" {
			log.Printf("🚫 [WEBHOOK_AUTH] Missing X-Webhook-Token header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "webhook authentication token missing",
			})
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Printf("❌ [WEBHOOK_AUTH] Invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid webhook authentication token",
			})
		}

		return c.Next()
	}
}
