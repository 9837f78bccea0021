package services

import (
	"context"
	"sync"
	"testing"
	"time"

	glebarez "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/resonance/data"
	"github.com/localnerve/resonance/internal/database"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/realtime"
	"github.com/localnerve/resonance/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testDay = types.Day("2026-06-01")

var (
	physical = SeedCategoryID("physical")
	mental   = SeedCategoryID("mental")
	social   = SeedCategoryID("social")
)

// setupTestDB creates a migrated, seeded in-memory SQLite database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(glebarez.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "create test database")

	// every connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	created, err := (&CategoryRegistry{DB: db}).Seed(context.Background(), data.SeedCategories)
	require.NoError(t, err, "seed categories")
	require.Equal(t, 6, created)

	return db
}

// fixedClock pins "today" to testDay
func fixedClock() Clock {
	return Clock{
		Now:      func() time.Time { return time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []realtime.ConstellationUpdate
}

func (p *recordingPublisher) PublishConstellation(_ context.Context, u realtime.ConstellationUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []realtime.ConstellationUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.ConstellationUpdate(nil), p.updates...)
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := setupTestDB(t)
	pub := &recordingPublisher{}
	engine := NewEngine(db, EngineOptions{
		Log:       logger.NewNop(),
		Publisher: pub,
		Clock:     fixedClock(),
	})
	return engine, db, pub
}

func newUser() string {
	return uuid.NewString()
}

func aggregateFor(t *testing.T, db *gorm.DB, day types.Day, slug string) models.ConstellationAggregate {
	t.Helper()
	var row models.ConstellationAggregate
	require.NoError(t, db.Where("day = ? AND axis_slug = ?", day, slug).Take(&row).Error)
	return row
}

func countEvents(t *testing.T, db *gorm.DB, where ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(&models.ResonanceEvent{})
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func axisBySlug(t *testing.T, res *HexagonResult, slug string) AxisResonance {
	t.Helper()
	for _, a := range res.Axes {
		if a.AxisSlug == slug {
			return a
		}
	}
	t.Fatalf("axis %s missing from hexagon", slug)
	return AxisResonance{}
}
