package services

import (
	"context"
	"testing"

	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHealthy(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{DBType: "sqlite-pure"}

	result := HealthCheck(context.Background(), cfg, db, logger.NewNop())
	assert.Equal(t, "healthy", result.Status)
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "disabled", result.Realtime)
	assert.Equal(t, "6", result.Details["axes"])
	assert.Empty(t, result.ErrorMessage)
}

func TestHealthCheckEmptyRegistry(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Model(&models.Category{}).Where("1 = 1").Update("active", false).Error)

	result := HealthCheck(context.Background(), &config.Config{DBType: "sqlite"}, db, logger.NewNop())
	assert.Equal(t, "unhealthy", result.Status)
	assert.Contains(t, result.Details, "registry_error")
}

func TestHealthCheckClosedDatabase(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	result := HealthCheck(context.Background(), &config.Config{DBType: "sqlite"}, db, logger.NewNop())
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Database)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestHealthCheckRedisUnreachable(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{DBType: "sqlite", RedisAddr: "127.0.0.1:1"}

	result := HealthCheck(context.Background(), cfg, db, logger.NewNop())
	assert.Equal(t, "unhealthy", result.Status)
	assert.Equal(t, "unreachable", result.Realtime)
	assert.Contains(t, result.Details, "realtime_error")
}
