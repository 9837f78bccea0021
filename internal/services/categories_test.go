package services

import (
	"context"
	"testing"

	"github.com/localnerve/resonance/data"
	"github.com/localnerve/resonance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOnlyFillsEmptyRegistry(t *testing.T) {
	db := setupTestDB(t)
	registry := &CategoryRegistry{DB: db}

	created, err := registry.Seed(context.Background(), data.SeedCategories)
	require.NoError(t, err)
	assert.Zero(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 6, count)
}

func TestSeedRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.Category{}).Error)
	registry := &CategoryRegistry{DB: db}

	_, err := registry.Seed(context.Background(), []byte(`{"slug":"x"}`))
	assert.Error(t, err)

	_, err = registry.Seed(context.Background(), []byte(`[{"displayName":"No slug"}]`))
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count, "a failed seed writes nothing")
}

func TestSeedCategoryIDIsStable(t *testing.T) {
	assert.Equal(t, SeedCategoryID("physical"), SeedCategoryID("physical"))
	assert.NotEqual(t, SeedCategoryID("physical"), SeedCategoryID("mental"))
}

func TestResolveAxis(t *testing.T) {
	db := setupTestDB(t)
	registry := &CategoryRegistry{DB: db}
	ctx := context.Background()

	cat, err := registry.ResolveAxis(ctx, nil, physical)
	require.NoError(t, err)
	assert.Equal(t, "physical", cat.Slug)
	assert.True(t, cat.IsAxis())
	assert.NotEmpty(t, cat.Metadata)

	_, err = registry.ResolveAxis(ctx, nil, "")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = registry.ResolveAxis(ctx, db, "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
