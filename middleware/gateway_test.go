package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newProtectedApp(t *testing.T, token string) *fiber.App {
	t.Helper()
	t.Setenv("WEBHOOK_TOKEN", token)

	app := fiber.New()
	app.Post("/webhooks/custody", WebhookAuthMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func TestWebhookAuthAcceptsValidToken(t *testing.T) {
	app := newProtectedApp(t, "secret-token")

	req := httptest.NewRequest("POST", "/webhooks/custody", nil)
	req.Header.Set("X-Webhook-Token", "secret-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWebhookAuthRejectsMissingToken(t *testing.T) {
	app := newProtectedApp(t, "secret-token")

	resp, err := app.Test(httptest.NewRequest("POST", "/webhooks/custody", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebhookAuthRejectsWrongToken(t *testing.T) {
	app := newProtectedApp(t, "secret-token")

	req := httptest.NewRequest("POST", "/webhooks/custody", nil)
	req.Header.Set("X-Webhook-Token", "wrong-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}
