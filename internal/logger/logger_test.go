package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestUserIDsAreHashed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("resonance recorded", "user_id", "3f1c2d7e-0000-4000-8000-000000000001", "axis", "physical")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	assert.Equal(t, "physical", fields["axis"])
	hashed, ok := fields["user_id"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(hashed, "hash:"))
	assert.NotContains(t, hashed, "3f1c2d7e")
}

func TestHashIsStableAndSalted(t *testing.T) {
	plain := NewNop()
	salted := NewNop().WithSalt("pepper")

	assert.Equal(t, plain.hash("u1"), plain.hash("u1"))
	assert.NotEqual(t, plain.hash("u1"), plain.hash("u2"))
	assert.NotEqual(t, plain.hash("u1"), salted.hash("u1"))
	assert.Empty(t, plain.hash(""))
}

func TestWithKeepsHashing(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core)).With("userID", "someone")

	log.Warn("skipped")

	fields := logs.All()[0].ContextMap()
	assert.NotEqual(t, "someone", fields["userID"])
}

func TestOddKeyValues(t *testing.T) {
	out := NewNop().sanitize([]interface{}{"axis", "mental", "dangling"})
	assert.Equal(t, []interface{}{"axis", "mental", "dangling"}, out)
}
