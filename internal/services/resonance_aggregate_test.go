package services

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIntensity(t *testing.T) {
	assert.Equal(t, 0.0, DeriveIntensity(0))
	assert.InDelta(t, 1.0, DeriveIntensity(1), 1e-9)
	assert.InDelta(t, 1.2, DeriveIntensity(3), 1e-9)
	assert.InDelta(t, 2.0, DeriveIntensity(11), 1e-9)
	assert.Equal(t, IntensityMax, DeriveIntensity(500))
}

func TestIncrementCreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := increment(ctx, db, testDay, "social", now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.CompletionCount)
	assert.InDelta(t, 1.0, first.Intensity, 1e-9)

	second, err := increment(ctx, db, testDay, "social", now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.CompletionCount)
	assert.InDelta(t, 1.1, second.Intensity, 1e-9)

	other, err := increment(ctx, db, "2026-06-02", "social", now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.CompletionCount, "days are independent keys")
}

func TestIntensityNeverExceedsMax(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 40; i++ {
		res, err := engine.Events.Record(ctx, newUser(), physical, testDay)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Aggregate.Intensity, IntensityMax)
	}

	agg := aggregateFor(t, db, testDay, "physical")
	assert.EqualValues(t, 40, agg.CompletionCount)
	assert.Equal(t, IntensityMax, agg.Intensity)
}

func TestCountMatchesEventLog(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	ctx := context.Background()

	plan := map[models.CategoryID]int{physical: 5, mental: 2, social: 7}
	for category, n := range plan {
		for i := 0; i < n; i++ {
			user := newUser()
			_, err := engine.Events.Record(ctx, user, category, testDay)
			require.NoError(t, err)
			// repeat fires never count twice
			_, err = engine.Events.Record(ctx, user, category, testDay)
			require.NoError(t, err)
		}
	}

	var aggregates []models.ConstellationAggregate
	require.NoError(t, db.Where("day = ?", testDay).Find(&aggregates).Error)
	require.Len(t, aggregates, len(plan))
	for _, agg := range aggregates {
		assert.Equal(t, countEvents(t, db, "day = ? AND axis_slug = ?", testDay, agg.AxisSlug), agg.CompletionCount, agg.AxisSlug)
	}

	report, err := engine.Aggregator.Reconcile(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Drifted, "incremental state matches a full re-derivation")
}

func TestReconcileRepairsDrift(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := engine.Events.Record(ctx, newUser(), physical, testDay)
		require.NoError(t, err)
	}

	// corrupt the cache: wrong count on one axis, a phantom row on another
	require.NoError(t, db.Model(&models.ConstellationAggregate{}).
		Where("day = ? AND axis_slug = ?", testDay, "physical").
		Updates(map[string]interface{}{"completion_count": 9, "intensity": 1.8}).Error)
	require.NoError(t, db.Create(&models.ConstellationAggregate{
		Day: testDay, AxisSlug: "spiritual", CompletionCount: 4, Intensity: 1.3,
	}).Error)

	aggregator := &Aggregator{DB: db, Log: logger.NewNop(), Clock: fixedClock()}
	report, err := aggregator.Reconcile(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Drifted)
	assert.Equal(t, testDay, report.Day)

	physicalRow := aggregateFor(t, db, testDay, "physical")
	assert.EqualValues(t, 3, physicalRow.CompletionCount)
	assert.InDelta(t, 1.2, physicalRow.Intensity, 1e-9)

	phantom := aggregateFor(t, db, testDay, "spiritual")
	assert.EqualValues(t, 0, phantom.CompletionCount, "rows are zeroed, never deleted")
	assert.Equal(t, 0.0, phantom.Intensity)

	again, err := aggregator.Reconcile(ctx, testDay)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Drifted)
}

func TestReconcileRebuildsMissingRows(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := engine.Events.Record(ctx, newUser(), mental, testDay)
		require.NoError(t, err)
	}
	require.NoError(t, db.Where("day = ?", testDay).Delete(&models.ConstellationAggregate{}).Error)

	report, err := engine.Aggregator.Reconcile(ctx, testDay)
	require.NoError(t, err)
	require.Len(t, report.Axes, 1)
	assert.True(t, report.Axes[0].Drifted)

	row := aggregateFor(t, db, testDay, "mental")
	assert.EqualValues(t, 2, row.CompletionCount)
	assert.InDelta(t, 1.1, row.Intensity, 1e-9)
}
