package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/services"
)

// CategoryHandler serves the axis registry
type CategoryHandler struct {
	Registry *services.CategoryRegistry
	Log      *logger.Logger
}

// ListAxes handles GET /api/categories
// @Summary List hexagon axes
// @Description Active axis categories in display order.
// @Tags Categories
// @Produce json
// @Success 200 {array} models.Category
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /categories [get]
func (h *CategoryHandler) ListAxes(c *fiber.Ctx) error {
	axes, err := h.Registry.ListAxes(c.UserContext(), nil)
	if err != nil {
		return serviceError(c, h.Log, err, "listAxes")
	}
	return c.Status(fiber.StatusOK).JSON(axes)
}
