package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// DefaultAPIVersion is assumed when the client sends no X-Api-Version
const DefaultAPIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header and stores it in context
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", DefaultAPIVersion)

		// Support version aliases
		switch version {
		case "1", "1.0":
			version = DefaultAPIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
