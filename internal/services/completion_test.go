// completion_test.go
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

package services

import (
	"context"
	"testing"

	"github.com/localnerve/resonance/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInPropagatesOnce(t *testing.T) {
	engine, db, pub := newTestEngine(t)
	ctx := context.Background()
	user := newUser()

	first, err := engine.Completions.CheckIn(ctx, user, physical, testDay)
	require.NoError(t, err)
	assert.True(t, first.Created)

	repeat, err := engine.Completions.CheckIn(ctx, user, physical, testDay)
	require.NoError(t, err)
	assert.False(t, repeat.Created)

	var facts int64
	require.NoError(t, db.Model(&models.CompletionFact{}).Count(&facts).Error)
	assert.EqualValues(t, 1, facts)
	assert.EqualValues(t, 1, countEvents(t, db))
	assert.EqualValues(t, 1, aggregateFor(t, db, testDay, "physical").CompletionCount)

	updates := pub.all()
	require.Len(t, updates, 1)
	assert.Equal(t, "physical", updates[0].AxisSlug)
	assert.EqualValues(t, 1, updates[0].CompletionCount)
}

func TestCheckInNonAxisCategoryStillSucceeds(t *testing.T) {
	engine, db, pub := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Category{
		CategoryID:  "habit-stretch",
		Slug:        "stretch",
		DisplayName: "Stretch",
		Active:      true,
		Kind:        "habit",
		Position:    40,
	}).Error)

	for _, id := range []models.CategoryID{"habit-stretch", "never-registered"} {
		res, err := engine.Completions.CheckIn(ctx, newUser(), id, testDay)
		require.NoError(t, err, id)
		assert.True(t, res.Created, id)
	}

	var facts int64
	require.NoError(t, db.Model(&models.CompletionFact{}).Count(&facts).Error)
	assert.EqualValues(t, 2, facts, "the check-ins committed")
	assert.EqualValues(t, 0, countEvents(t, db))
	assert.Empty(t, pub.all())
}

func TestCheckInDefaultsToToday(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	res, err := engine.Completions.CheckIn(context.Background(), newUser(), social, "")
	require.NoError(t, err)
	assert.Equal(t, testDay, res.Day)
}

func TestCheckInRejectsMalformedInput(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Completions.CheckIn(ctx, "", physical, testDay)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Completions.CheckIn(ctx, newUser(), "", testDay)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Completions.CheckIn(ctx, newUser(), physical, "June 1st")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckInMany(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	ctx := context.Background()
	user := newUser()

	results, err := engine.Completions.CheckInMany(ctx, user, []CheckInInput{
		{CategoryID: physical, Day: testDay},
		{CategoryID: mental},
		{CategoryID: physical, Day: testDay},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Created)
	assert.True(t, results[1].Created)
	assert.False(t, results[2].Created)
	assert.EqualValues(t, 2, countEvents(t, db, "user_id = ?", user))

	results, err = engine.Completions.CheckInMany(ctx, user, []CheckInInput{
		{CategoryID: social, Day: testDay},
		{CategoryID: social, Day: "bogus"},
		{CategoryID: mental, Day: "2026-06-02"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, results, 1, "batch stops at the first failure")
}

func TestUncheckKeepsCommunitySignal(t *testing.T) {
	engine, db, _ := newTestEngine(t)
	ctx := context.Background()
	user := newUser()
	other := newUser()

	for _, u := range []string{user, other} {
		_, err := engine.Completions.CheckIn(ctx, u, physical, testDay)
		require.NoError(t, err)
	}

	removed, err := engine.Completions.Uncheck(ctx, user, physical, testDay)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = engine.Completions.Uncheck(ctx, user, physical, testDay)
	require.NoError(t, err)
	assert.False(t, removed)

	hexagon, err := engine.Query.HexagonResonance(ctx, user, testDay)
	require.NoError(t, err)
	axis := axisBySlug(t, hexagon, "physical")
	assert.False(t, axis.UserCompleted)
	assert.EqualValues(t, 1, axis.ResonanceCount)

	assert.EqualValues(t, 2, aggregateFor(t, db, testDay, "physical").CompletionCount)
	assert.EqualValues(t, 2, countEvents(t, db))

	// checking in again does not double count the community signal
	res, err := engine.Completions.CheckIn(ctx, user, physical, testDay)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.EqualValues(t, 2, aggregateFor(t, db, testDay, "physical").CompletionCount)
}
