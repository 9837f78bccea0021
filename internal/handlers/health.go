package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports service health for probes
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *logger.Logger
}

// Check handles GET /healthz
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /healthz [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Config, h.DB, h.Log)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
