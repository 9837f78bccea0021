// resonance_log.go
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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/metrics"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/realtime"
	"github.com/localnerve/resonance/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventLog is the append-only resonance log and the only caller of the
// aggregate increment.
type EventLog struct {
	DB        *gorm.DB
	Registry  *CategoryRegistry
	Publisher realtime.Publisher
	Log       *logger.Logger
	Metrics   *metrics.Resonance
	Clock     Clock
}

// RecordResult reports what a record call did
type RecordResult struct {
	Event     models.ResonanceEvent
	Inserted  bool
	Aggregate *models.ConstellationAggregate
}

// Record logs that userID completed categoryID on day in its own
// transaction. A repeated call for the same key is a no-op that returns
// the existing event with Inserted=false; the event id is empty when the
// winning row is not yet visible.
func (l *EventLog) Record(ctx context.Context, userID string, categoryID models.CategoryID, day types.Day) (*RecordResult, error) {
	var result *RecordResult
	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = l.record(ctx, tx, userID, categoryID, day)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Inserted {
		l.broadcast(ctx, result.Aggregate)
	}
	return result, nil
}

// HandleCompletion subscribes the log to completion inserts. It runs in
// the check-in transaction and defers the broadcast until it commits.
func (l *EventLog) HandleCompletion(ctx context.Context, p *Propagation, ev CompletionEvent) error {
	result, err := l.record(ctx, p.Tx(), ev.UserID, ev.CategoryID, ev.Day)
	if err != nil {
		return err
	}
	if result.Inserted {
		agg := result.Aggregate
		p.AfterCommit(func(ctx context.Context) {
			l.broadcast(ctx, agg)
		})
	}
	return nil
}

func (l *EventLog) record(ctx context.Context, tx *gorm.DB, userID string, categoryID models.CategoryID, day types.Day) (*RecordResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	day, err := l.Clock.resolveDay(day)
	if err != nil {
		return nil, err
	}

	category, err := l.Registry.ResolveAxis(ctx, tx, categoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := models.ResonanceEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		CategoryID: category.CategoryID,
		Day:        day,
		AxisSlug:   category.Slug,
		CreatedAt:  now,
	}

	res := tagged(tx, "insert", "record").WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}, {Name: "day"}},
			DoNothing: true,
		}).
		Create(&event)
	if res.Error != nil {
		return nil, fmt.Errorf("record resonance event: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := existingEvent(ctx, tx, userID, category, day)
		if err != nil {
			return nil, err
		}
		l.Metrics.Event(metrics.OutcomeDuplicate)
		l.Log.Debug("resonance already recorded", "user_id", userID, "axis", category.Slug, "day", day)
		return &RecordResult{Event: existing, Inserted: false}, nil
	}

	agg, err := increment(ctx, tx, day, category.Slug, now)
	if err != nil {
		return nil, err
	}

	l.Metrics.Event(metrics.OutcomeInserted)
	l.Metrics.Intensity(category.Slug, agg.Intensity)
	l.Log.Debug("resonance recorded", "user_id", userID, "axis", category.Slug, "day", day, "count", agg.CompletionCount)

	return &RecordResult{Event: event, Inserted: true, Aggregate: agg}, nil
}

// existingEvent loads the event that won the insert race. MySQL reads
// from the snapshot taken at the first select, which can predate the
// winner's commit, so the read locks there to see the latest row. If the
// row is still not visible the key fields stand in for it.
func existingEvent(ctx context.Context, tx *gorm.DB, userID string, category *models.Category, day types.Day) (models.ResonanceEvent, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var existing models.ResonanceEvent
	err := tagged(q, "select", "record_existing").
		Where("user_id = ? AND category_id = ? AND day = ?", userID, category.CategoryID, day).
		Take(&existing).Error
	switch {
	case err == nil:
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ResonanceEvent{
			UserID:     userID,
			CategoryID: category.CategoryID,
			Day:        day,
			AxisSlug:   category.Slug,
		}, nil
	default:
		return models.ResonanceEvent{}, fmt.Errorf("read existing resonance event: %w", err)
	}
}

// broadcast is best effort; the visualization catches up on its next read
func (l *EventLog) broadcast(ctx context.Context, agg *models.ConstellationAggregate) {
	if l.Publisher == nil || agg == nil {
		return
	}
	err := l.Publisher.PublishConstellation(ctx, realtime.ConstellationUpdate{
		Day:             agg.Day,
		AxisSlug:        agg.AxisSlug,
		CompletionCount: agg.CompletionCount,
		Intensity:       agg.Intensity,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Log.Warn("constellation broadcast failed", "axis", agg.AxisSlug, "day", agg.Day, "error", err)
	}
}
