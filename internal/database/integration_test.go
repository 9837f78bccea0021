package database_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/resonance/data"
	"github.com/localnerve/resonance/internal/database"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/services"
	"github.com/localnerve/resonance/internal/testutil"
	"github.com/localnerve/resonance/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresIntegration(t *testing.T) {
	img := testutil.RequireImage(t, testutil.EnvPostgresImage)
	runEngineAgainst(t, "postgres", img)
}

func TestMariaDBIntegration(t *testing.T) {
	img := testutil.RequireImage(t, testutil.EnvMariaDBImage)
	runEngineAgainst(t, "mariadb", img)
}

// runEngineAgainst exercises the upsert and savepoint paths on a real server
func runEngineAgainst(t *testing.T, dbType, img string) {
	ctx := context.Background()

	dc, err := testutil.StartDatabase(ctx, t, dbType, img)
	require.NoError(t, err)
	t.Cleanup(func() { dc.Terminate(t) })

	db, err := database.Connect(dc.Config, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	created, err := (&services.CategoryRegistry{DB: db}).Seed(ctx, data.SeedCategories)
	require.NoError(t, err)
	require.Equal(t, 6, created)

	engine := services.NewEngine(db, services.EngineOptions{})
	day := types.Day("2026-06-01")
	physical := services.SeedCategoryID("physical")

	t.Run("concurrent check-ins", func(t *testing.T) {
		const users = 25
		var wg sync.WaitGroup
		errCh := make(chan error, users*2)
		for i := 0; i < users; i++ {
			user := uuid.NewString()
			for j := 0; j < 2; j++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := engine.Completions.CheckIn(ctx, user, physical, day); err != nil {
						errCh <- err
					}
				}()
			}
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			require.NoError(t, err)
		}

		var row models.ConstellationAggregate
		require.NoError(t, db.Where("day = ? AND axis_slug = ?", day, "physical").Take(&row).Error)
		assert.EqualValues(t, users, row.CompletionCount)
		assert.InDelta(t, services.IntensityMax, row.Intensity, 1e-9)

		var events int64
		require.NoError(t, db.Model(&models.ResonanceEvent{}).Where("day = ?", day).Count(&events).Error)
		assert.EqualValues(t, users, events)
	})

	t.Run("concurrent duplicate records", func(t *testing.T) {
		const racers = 8
		user := uuid.NewString()
		mental := services.SeedCategoryID("mental")

		var wg sync.WaitGroup
		results := make(chan *services.RecordResult, racers)
		errCh := make(chan error, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := engine.Events.Record(ctx, user, mental, day)
				if err != nil {
					errCh <- err
					return
				}
				results <- res
			}()
		}
		wg.Wait()
		close(errCh)
		close(results)
		for err := range errCh {
			require.NoError(t, err)
		}

		inserted := 0
		for res := range results {
			if res.Inserted {
				inserted++
			}
			assert.Equal(t, "mental", res.Event.AxisSlug)
		}
		assert.Equal(t, 1, inserted)

		var row models.ConstellationAggregate
		require.NoError(t, db.Where("day = ? AND axis_slug = ?", day, "mental").Take(&row).Error)
		assert.EqualValues(t, 1, row.CompletionCount)
	})

	t.Run("unknown category keeps the check-in", func(t *testing.T) {
		res, err := engine.Completions.CheckIn(ctx, uuid.NewString(), "not-an-axis", day)
		require.NoError(t, err)
		assert.True(t, res.Created)
	})

	t.Run("hexagon excludes caller", func(t *testing.T) {
		caller := uuid.NewString()
		_, err := engine.Completions.CheckIn(ctx, caller, physical, day)
		require.NoError(t, err)

		hexagon, err := engine.Query.HexagonResonance(ctx, caller, day)
		require.NoError(t, err)
		assert.False(t, hexagon.Degraded)
		require.Len(t, hexagon.Axes, 6)
		assert.EqualValues(t, 25, hexagon.Axes[0].ResonanceCount)
		assert.True(t, hexagon.Axes[0].UserCompleted)
	})

	t.Run("reconcile finds no drift", func(t *testing.T) {
		report, err := engine.Aggregator.Reconcile(ctx, day)
		require.NoError(t, err)
		assert.Zero(t, report.Drifted)
	})
}
