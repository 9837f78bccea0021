// main.go
//
// Resonance aggregation service for the habit tracker
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of resonance.
// resonance is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// resonance is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with resonance.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/localnerve/resonance/data"
	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/database"
	"github.com/localnerve/resonance/internal/handlers"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/metrics"
	"github.com/localnerve/resonance/internal/middleware"
	"github.com/localnerve/resonance/internal/realtime"
	"github.com/localnerve/resonance/internal/services"
	"github.com/localnerve/resonance/internal/utils"

	_ "github.com/localnerve/resonance/docs/api" // Swagger docs
)

// @title Resonance API
// @version 1.0.0
// @description Community resonance for the habit tracker hexagon
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/resonance
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey GatewayIdentity
// @in header
// @name X-User-ID

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	loc, err := cfg.Location()
	if err != nil {
		appLog.Fatal("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	// Connect to database
	db, err := database.Connect(cfg, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "type", cfg.DBType, "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		appLog.Fatal("failed to run migrations", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedCategories {
		created, err := (&services.CategoryRegistry{DB: db}).Seed(ctx, data.SeedCategories)
		if err != nil {
			appLog.Fatal("failed to seed categories", "error", err)
		}
		if created > 0 {
			appLog.Info("seeded category registry", "count", created)
		}
	}

	// Realtime broadcast is optional
	var publisher realtime.Publisher = realtime.NopPublisher{}
	if cfg.RedisAddr != "" {
		publisher, err = realtime.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisChannel, appLog)
		if err != nil {
			appLog.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		appLog.Info("constellation broadcast enabled", "channel", cfg.RedisChannel)
	}
	defer publisher.Close()

	engine := services.NewEngine(db, services.EngineOptions{
		Log:       appLog,
		Metrics:   metrics.NewResonance(prometheus.DefaultRegisterer),
		Publisher: publisher,
		Clock:     services.Clock{Location: loc},
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prom := fiberprometheus.New("resonance")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Config: cfg, DB: db, Log: appLog}
	app.Get("/healthz", health.Check)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	categoryHandler := &handlers.CategoryHandler{Registry: engine.Registry, Log: appLog}
	completionHandler := &handlers.CompletionHandler{Completions: engine.Completions, Log: appLog}
	resonanceHandler := &handlers.ResonanceHandler{Events: engine.Events, Query: engine.Query, Log: appLog}

	// Public routes
	api.Get("/categories", categoryHandler.ListAxes)
	api.Get("/resonance/constellation/:day", resonanceHandler.GetConstellation)

	// Caller routes, identity set by the gateway
	requireUser := middleware.RequireUser()
	api.Post("/completions", requireUser, completionHandler.CheckIn)
	api.Delete("/completions/:categoryId", requireUser, completionHandler.Uncheck)
	api.Post("/resonance/events", requireUser, resonanceHandler.RecordEvent)
	api.Get("/resonance/hexagon", requireUser, resonanceHandler.GetHexagon)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorHandler(c, fiber.ErrNotFound)
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		appLog.Info("gracefully shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.Error("shutdown failed", "error", err)
		}
	}()

	// Start server
	appLog.Info("starting server", "port", cfg.Port, "database", cfg.DBType, "timezone", loc.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("failed to start server", "error", err)
	}

	appLog.Info("server stopped")
}
