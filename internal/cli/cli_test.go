package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localnerve/resonance/internal/config"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/services"
)

const testDay = "2026-06-01"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBType:            "sqlite-pure",
		DBDatabase:        filepath.Join(t.TempDir(), "resonance.db"),
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
		Timezone:          "UTC",
	}
}

// run executes resonancectl with args against cfg and returns stdout
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&RootOptions{Config: cfg})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func seeded(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	out, err := run(t, cfg, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "6 categories created")
	return cfg
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "resonancectl", cmd.Use)

	for _, name := range []string{"record", "checkin", "hexagon", "constellation", "reconcile", "categories", "seed", "watch"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, FormatText, format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, testConfig(t), "categories", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecordRequiresFlags(t *testing.T) {
	_, err := run(t, testConfig(t), "record", "--user", uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRecordBadDay(t *testing.T) {
	_, err := run(t, testConfig(t), "record", "--user", uuid.NewString(), "--category", "x", "--day", "June 1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSeedOnlyOnce(t *testing.T) {
	cfg := seeded(t)

	out, err := run(t, cfg, "seed", "--format", "json")
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 0, got["created"])
}

func TestCategoriesListsAxes(t *testing.T) {
	cfg := seeded(t)

	out, err := run(t, cfg, "categories", "--format", "json")
	require.NoError(t, err)

	var axes []models.Category
	require.NoError(t, json.Unmarshal([]byte(out), &axes))
	require.Len(t, axes, 6)
	assert.Equal(t, "physical", axes[0].Slug)
	assert.Equal(t, "material", axes[5].Slug)
}

func TestRecordAndReadBack(t *testing.T) {
	cfg := seeded(t)
	physical := string(services.SeedCategoryID("physical"))
	alice, bob := uuid.NewString(), uuid.NewString()

	out, err := run(t, cfg, "record", "--user", alice, "--category", physical, "--day", testDay)
	require.NoError(t, err)
	assert.Contains(t, out, "recorded")

	out, err = run(t, cfg, "record", "--user", alice, "--category", physical, "--day", testDay)
	require.NoError(t, err)
	assert.Contains(t, out, "already recorded")

	_, err = run(t, cfg, "checkin", "--user", bob, "--category", physical, "--day", testDay)
	require.NoError(t, err)

	out, err = run(t, cfg, "constellation", "--day", testDay, "--format", "json")
	require.NoError(t, err)
	var rows []models.ConstellationAggregate
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0].CompletionCount)
	assert.InDelta(t, services.DeriveIntensity(2), rows[0].Intensity, 1e-9)

	out, err = run(t, cfg, "hexagon", "--user", alice, "--day", testDay, "--format", "json")
	require.NoError(t, err)
	var hexagon services.HexagonResult
	require.NoError(t, json.Unmarshal([]byte(out), &hexagon))
	require.Len(t, hexagon.Axes, 6)
	assert.Equal(t, "physical", hexagon.Axes[0].AxisSlug)
	assert.EqualValues(t, 1, hexagon.Axes[0].ResonanceCount)
	assert.True(t, hexagon.Axes[0].UserCompleted)
}

func TestRecordUnknownCategory(t *testing.T) {
	cfg := seeded(t)
	_, err := run(t, cfg, "record", "--user", uuid.NewString(), "--category", "not-an-axis", "--day", testDay)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)
}

func TestReconcileReportsNoDrift(t *testing.T) {
	cfg := seeded(t)
	_, err := run(t, cfg, "checkin", "--user", uuid.NewString(),
		"--category", string(services.SeedCategoryID("mental")), "--day", testDay)
	require.NoError(t, err)

	out, err := run(t, cfg, "reconcile", "--day", testDay)
	require.NoError(t, err)
	assert.Contains(t, out, "day 2026-06-01: 0 drifted")
}

func TestWatchRequiresRedis(t *testing.T) {
	_, err := run(t, testConfig(t), "watch")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}
