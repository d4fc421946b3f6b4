package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/domain"
)

const sessionKey = "session"

// RequireSession verifies the Bearer token and stores the resulting
// Session in the request locals. Every repository operation downstream
// requires that session.
func RequireSession(auth ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		session, err := auth.SessionFromToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

// SessionFrom returns the Session stored by RequireSession. The zero
// Session is returned when the middleware did not run.
func SessionFrom(c *fiber.Ctx) domain.Session {
	if session, ok := c.Locals(sessionKey).(domain.Session); ok {
		return session
	}
	return domain.Session{}
}
