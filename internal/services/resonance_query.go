// resonance_query.go
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
	"fmt"

	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/metrics"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/types"
	"gorm.io/gorm"
)

// QueryService is the read path of the hexagon visualization
type QueryService struct {
	DB       *gorm.DB
	Registry *CategoryRegistry
	Log      *logger.Logger
	Metrics  *metrics.Resonance
	Clock    Clock
}

// AxisResonance is one corner of the hexagon. It never names other users.
type AxisResonance struct {
	AxisSlug       string            `json:"axisSlug"`
	CategoryID     models.CategoryID `json:"categoryId"`
	DisplayName    string            `json:"displayName"`
	Position       int               `json:"position"`
	ResonanceCount int64             `json:"resonanceCount"`
	UserCompleted  bool              `json:"userCompleted"`
}

// HexagonResult holds one row per active axis in display order.
// Degraded marks a zero-filled answer produced after a read failure.
type HexagonResult struct {
	Day      types.Day       `json:"day"`
	Axes     []AxisResonance `json:"axes"`
	Degraded bool            `json:"degraded"`
}

type categoryCount struct {
	CategoryID models.CategoryID
	Total      int64
}

// HexagonResonance returns, per active axis, how many other users
// completed it on day and whether userID did. Only a failure to list the
// axes is returned as an error; count failures degrade to zeros.
func (q *QueryService) HexagonResonance(ctx context.Context, userID string, day types.Day) (*HexagonResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	day, err := q.Clock.resolveDay(day)
	if err != nil {
		return nil, err
	}

	axes, err := q.Registry.ListAxes(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := &HexagonResult{Day: day, Axes: make([]AxisResonance, 0, len(axes))}
	for _, axis := range axes {
		result.Axes = append(result.Axes, AxisResonance{
			AxisSlug:    axis.Slug,
			CategoryID:  axis.CategoryID,
			DisplayName: axis.DisplayName,
			Position:    axis.Position,
		})
	}

	counts, err := q.otherUserCounts(ctx, userID, day)
	if err != nil {
		q.degrade(result, "count resonance", err)
		return result, nil
	}
	completed, err := q.completedCategories(ctx, userID, day)
	if err != nil {
		q.degrade(result, "read completions", err)
		return result, nil
	}

	for i := range result.Axes {
		id := result.Axes[i].CategoryID
		result.Axes[i].ResonanceCount = counts[id]
		_, result.Axes[i].UserCompleted = completed[id]
	}
	return result, nil
}

// FallbackHexagon is the answer when not even the axes can be read
func FallbackHexagon(day types.Day) *HexagonResult {
	return &HexagonResult{Day: day, Axes: []AxisResonance{}, Degraded: true}
}

func (q *QueryService) degrade(result *HexagonResult, stage string, err error) {
	for i := range result.Axes {
		result.Axes[i].ResonanceCount = 0
		result.Axes[i].UserCompleted = false
	}
	result.Degraded = true
	q.Metrics.HexagonDegraded()
	q.Log.Error("hexagon resonance degraded", "stage", stage, "day", result.Day, "error", err)
}

// otherUserCounts counts distinct users other than userID per category.
// The caller is excluded in SQL so their own event never reaches the sum.
func (q *QueryService) otherUserCounts(ctx context.Context, userID string, day types.Day) (map[models.CategoryID]int64, error) {
	var rows []categoryCount
	err := tagged(q.DB, "select", "hexagon_counts").WithContext(ctx).
		Model(&models.ResonanceEvent{}).
		Select("category_id, COUNT(DISTINCT user_id) AS total").
		Where("day = ? AND user_id <> ?", day, userID).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count resonance for %s: %w", day, err)
	}

	counts := make(map[models.CategoryID]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}

// completedCategories reads the caller's own state from the fact table,
// so an un-check shows up even though the resonance log keeps the event.
func (q *QueryService) completedCategories(ctx context.Context, userID string, day types.Day) (map[models.CategoryID]struct{}, error) {
	var ids []models.CategoryID
	err := tagged(q.DB, "select", "hexagon_completed").WithContext(ctx).
		Model(&models.CompletionFact{}).
		Where("user_id = ? AND day = ?", userID, day).
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("read completions for %s: %w", day, err)
	}

	completed := make(map[models.CategoryID]struct{}, len(ids))
	for _, id := range ids {
		completed[id] = struct{}{}
	}
	return completed, nil
}

// Constellation returns the aggregate rows of day ordered by axis
func (q *QueryService) Constellation(ctx context.Context, day types.Day) ([]models.ConstellationAggregate, error) {
	day, err := q.Clock.resolveDay(day)
	if err != nil {
		return nil, err
	}

	var rows []models.ConstellationAggregate
	err = tagged(q.DB, "select", "constellation").WithContext(ctx).
		Where("day = ?", day).
		Order("axis_slug ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read constellation for %s: %w", day, err)
	}
	return rows, nil
}
