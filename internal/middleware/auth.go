package middleware

import (
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures an account is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Caller(c).IsZero() {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Caller is the authenticated address of the request, empty when logged out.
// Every ledger operation runs as this principal.
func Caller(c *fiber.Ctx) domain.Address {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return ""
	}
	addr, _ := m["address"].(string)
	return domain.Address(addr)
}
