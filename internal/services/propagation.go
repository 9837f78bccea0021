// propagation.go
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
	"sync"

	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/metrics"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/types"
	"gorm.io/gorm"
)

// CompletionEvent is published once per genuinely inserted completion fact
type CompletionEvent struct {
	UserID     string
	CategoryID models.CategoryID
	Day        types.Day
}

// CompletionSubscriber reacts to completion inserts inside the check-in
// transaction.
type CompletionSubscriber interface {
	HandleCompletion(ctx context.Context, p *Propagation, ev CompletionEvent) error
}

// Propagation carries the triggering transaction to subscribers and
// collects work that may only run once it has committed.
type Propagation struct {
	tx          *gorm.DB
	afterCommit []func(context.Context)
}

// NewPropagation starts a propagation bound to tx
func NewPropagation(tx *gorm.DB) *Propagation {
	return &Propagation{tx: tx}
}

// Tx is the transaction subscribers must write through
func (p *Propagation) Tx() *gorm.DB {
	return p.tx
}

// AfterCommit defers fn until the triggering transaction commits.
// Dropped if it rolls back.
func (p *Propagation) AfterCommit(fn func(context.Context)) {
	p.afterCommit = append(p.afterCommit, fn)
}

// Committed runs the deferred callbacks; the caller invokes it after commit
func (p *Propagation) Committed(ctx context.Context) {
	for _, fn := range p.afterCommit {
		fn(ctx)
	}
	p.afterCommit = nil
}

type subscription struct {
	name string
	sub  CompletionSubscriber
}

// Dispatcher fans completion events out to subscribers. Each subscriber
// runs in its own savepoint; a failure rolls back only that subscriber's
// writes and never reaches the check-in.
type Dispatcher struct {
	Log     *logger.Logger
	Metrics *metrics.Resonance

	mu          sync.RWMutex
	subscribers []subscription
}

// Subscribe registers sub under name, used in logs and metrics
func (d *Dispatcher) Subscribe(name string, sub CompletionSubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, subscription{name: name, sub: sub})
}

// Publish delivers ev to every subscriber within p's transaction
func (d *Dispatcher) Publish(ctx context.Context, p *Propagation, ev CompletionEvent) {
	d.mu.RLock()
	subs := make([]subscription, len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.RUnlock()

	for _, s := range subs {
		child := NewPropagation(nil)
		err := p.tx.Transaction(func(sp *gorm.DB) error {
			child.tx = sp
			return s.sub.HandleCompletion(ctx, child, ev)
		})
		if err != nil {
			d.failed(s.name, ev, err)
			continue
		}
		p.afterCommit = append(p.afterCommit, child.afterCommit...)
	}
}

func (d *Dispatcher) failed(name string, ev CompletionEvent, err error) {
	if errors.Is(err, ErrCategoryNotFound) {
		d.Metrics.PropagationFailure(name, "category_not_found")
		d.Log.Info("completion not propagated, category is not an active axis",
			"subscriber", name, "category", ev.CategoryID, "day", ev.Day)
		return
	}
	reason := "error"
	if errors.Is(err, ErrInvalidInput) {
		reason = "invalid_input"
	}
	d.Metrics.PropagationFailure(name, reason)
	d.Log.Error("completion propagation failed",
		"subscriber", name, "user_id", ev.UserID, "category", ev.CategoryID, "day", ev.Day, "error", err)
}
