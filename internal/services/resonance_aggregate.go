// resonance_aggregate.go
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
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Intensity is a saturating presentation metric layered on the exact count.
const (
	IntensityBase = 1.0
	IntensityStep = 0.1
	IntensityMax  = 2.0
)

// intensityTolerance absorbs float noise between the incremental and the
// derived intensity when reconciling.
const intensityTolerance = 1e-9

var (
	incrementCount = gorm.Expr("constellation_data.completion_count + 1")

	incrementIntensity = gorm.Expr(fmt.Sprintf(
		"CASE WHEN constellation_data.intensity + %.2f > %.2f THEN %.2f ELSE constellation_data.intensity + %.2f END",
		IntensityStep, IntensityMax, IntensityMax, IntensityStep,
	))
)

// DeriveIntensity is the intensity a row with count events must carry
func DeriveIntensity(count int64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(IntensityBase+IntensityStep*float64(count-1), IntensityMax)
}

// increment adds one completion to the (day, axis) row in a single
// insert-or-update statement. Only the event log calls it, on a genuine
// event insert, inside the same transaction.
func increment(ctx context.Context, tx *gorm.DB, day types.Day, axisSlug string, now time.Time) (*models.ConstellationAggregate, error) {
	row := models.ConstellationAggregate{
		Day:             day,
		AxisSlug:        axisSlug,
		CompletionCount: 1,
		Intensity:       IntensityBase,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := tagged(tx, "insert", "increment").WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}, {Name: "axis_slug"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completion_count": incrementCount,
				"intensity":        incrementIntensity,
				"updated_at":       now,
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("increment constellation %s/%s: %w", day, axisSlug, err)
	}

	var current models.ConstellationAggregate
	if err := tx.WithContext(ctx).
		Where("day = ? AND axis_slug = ?", day, axisSlug).
		Take(&current).Error; err != nil {
		return nil, fmt.Errorf("read constellation %s/%s: %w", day, axisSlug, err)
	}
	return &current, nil
}

// Aggregator owns maintenance of the constellation table. Increments are
// not exposed here; they only happen through the event log.
type Aggregator struct {
	DB    *gorm.DB
	Log   *logger.Logger
	Clock Clock
}

// AxisDrift describes one aggregate row before and after reconciliation
type AxisDrift struct {
	AxisSlug        string  `json:"axisSlug"`
	CountBefore     int64   `json:"countBefore"`
	CountAfter      int64   `json:"countAfter"`
	IntensityBefore float64 `json:"intensityBefore"`
	IntensityAfter  float64 `json:"intensityAfter"`
	Drifted         bool    `json:"drifted"`
}

// ReconcileReport is the outcome of re-deriving a day from the event log
type ReconcileReport struct {
	Day     types.Day   `json:"day"`
	Axes    []AxisDrift `json:"axes"`
	Drifted int         `json:"drifted"`
}

type axisCount struct {
	AxisSlug string
	Total    int64
}

// Reconcile rewrites every constellation row of day from the event log.
// Rows whose axis no longer has events are zeroed, never deleted.
func (a *Aggregator) Reconcile(ctx context.Context, day types.Day) (*ReconcileReport, error) {
	day, err := a.Clock.resolveDay(day)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{Day: day}
	now := time.Now().UTC()

	err = a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var derived []axisCount
		if err := tagged(tx, "select", "reconcile_derive").
			Model(&models.ResonanceEvent{}).
			Select("axis_slug, COUNT(*) AS total").
			Where("day = ?", day).
			Group("axis_slug").
			Scan(&derived).Error; err != nil {
			return fmt.Errorf("derive constellation %s: %w", day, err)
		}

		var existing []models.ConstellationAggregate
		if err := tx.Where("day = ?", day).Find(&existing).Error; err != nil {
			return fmt.Errorf("read constellation %s: %w", day, err)
		}

		before := make(map[string]models.ConstellationAggregate, len(existing))
		for _, row := range existing {
			before[row.AxisSlug] = row
		}
		after := make(map[string]int64, len(derived))
		for _, d := range derived {
			after[d.AxisSlug] = d.Total
		}
		for slug := range before {
			if _, ok := after[slug]; !ok {
				after[slug] = 0
			}
		}

		slugs := make([]string, 0, len(after))
		for slug := range after {
			slugs = append(slugs, slug)
		}
		sort.Strings(slugs)

		for _, slug := range slugs {
			count := after[slug]
			prev, had := before[slug]
			drift := AxisDrift{
				AxisSlug:        slug,
				CountBefore:     prev.CompletionCount,
				CountAfter:      count,
				IntensityBefore: prev.Intensity,
				IntensityAfter:  DeriveIntensity(count),
			}
			drift.Drifted = !had ||
				drift.CountBefore != drift.CountAfter ||
				math.Abs(drift.IntensityBefore-drift.IntensityAfter) > intensityTolerance
			report.Axes = append(report.Axes, drift)

			if !drift.Drifted {
				continue
			}
			report.Drifted++

			row := models.ConstellationAggregate{
				Day:             day,
				AxisSlug:        slug,
				CompletionCount: drift.CountAfter,
				Intensity:       drift.IntensityAfter,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := tagged(tx, "insert", "reconcile_write").
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "day"}, {Name: "axis_slug"}},
					DoUpdates: clause.AssignmentColumns([]string{"completion_count", "intensity", "updated_at"}),
				}).
				Create(&row).Error; err != nil {
				return fmt.Errorf("write constellation %s/%s: %w", day, slug, err)
			}
		}
		return nil
	}, reconcileTxOptions(a.DB))
	if err != nil {
		return nil, err
	}

	if report.Drifted > 0 {
		a.Log.Warn("constellation drift repaired", "day", day, "axes", report.Drifted)
	} else {
		a.Log.Info("constellation consistent with event log", "day", day)
	}
	return report, nil
}

// reconcileTxOptions asks for serializable isolation where the dialect
// takes it, so increments racing the rewrite abort instead of being lost.
// SQLite is serializable already.
func reconcileTxOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}
