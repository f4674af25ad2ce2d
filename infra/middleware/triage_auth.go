package middleware

import (
	"crypto/subtle"

	"triage_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// APIKeyAuth guards administrative routes with a static API key passed
// in the X-API-Key header. An empty configured key disables the check,
// which is the local development default.
func APIKeyAuth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}

		provided := c.Get("X-API-Key")
		if provided == "" {
			return apperr.Unauthorized("missing API key")
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return apperr.Unauthorized("invalid API key")
		}
		return c.Next()
	}
}
