package utils

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/resonance/internal/types"
)

// ErrorHandler renders errors returned by handlers and middleware
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var custom *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &custom):
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusNotFound && errorType == "unknown" {
		message = "[404] Resource Not Found"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
