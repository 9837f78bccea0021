package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/localnerve/resonance/internal/types"
)

// UserIDHeader carries the caller identity set by the authentication gateway
const UserIDHeader = "X-User-ID"

// UserIDKey is the fiber Locals key holding the validated caller id
const UserIDKey = "userID"

// RequireUser validates the gateway identity header and stores the
// canonical user id in context.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(UserIDHeader)
		if raw == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Identity header \"" + UserIDHeader + "\" not found",
				Type:    "resonance.authorization.user",
			}
		}

		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid identity header \"" + UserIDHeader + "\"",
				Type:    "resonance.authorization.user",
			}
		}

		c.Locals(UserIDKey, id.String())
		return c.Next()
	}
}

// UserID returns the id stored by RequireUser, or "" when absent
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
