package services

import (
	"context"
	"fmt"

	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Realtime     string            `json:"realtime"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks database connectivity, the category registry and,
// when configured, the realtime redis.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logger.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(key, msg string, err error) {
		result.Status = "unhealthy"
		result.Details[key] = err.Error()
		if result.ErrorMessage != "" {
			result.ErrorMessage += "; "
		}
		result.ErrorMessage += fmt.Sprintf("%s: %v", msg, err)
		log.Warn("health check failed", "check", key, "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		fail("database_error", "Database connection error", err)
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Database = "unreachable"
		fail("database_ping_error", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType

		axes, err := (&CategoryRegistry{DB: db}).ListAxes(ctx, nil)
		switch {
		case err != nil:
			fail("registry_error", "Category registry unreadable", err)
		case len(axes) == 0:
			fail("registry_error", "Category registry", fmt.Errorf("no active axes"))
		default:
			result.Details["axes"] = fmt.Sprintf("%d", len(axes))
		}
	}

	if cfg.RedisAddr == "" {
		result.Realtime = "disabled"
	} else if err := utils.PingRedis(cfg.RedisAddr); err != nil {
		result.Realtime = "unreachable"
		fail("realtime_error", "Redis ping failed", err)
	} else {
		result.Realtime = "ok"
	}

	if result.Status == "healthy" {
		log.Debug("health check passed")
	}

	return result
}
