package models

import (
	"time"

	"github.com/localnerve/resonance/internal/types"
)

// KindAxis marks a category as a trackable hexagon axis.
const KindAxis = "axis"

// CategoryID identifies a category. It is opaque text so the identifier
// scheme can change through a data migration without touching the engine.
type CategoryID string

func (id CategoryID) String() string {
	return string(id)
}

// Category is an entry of the category registry
type Category struct {
	CategoryID  CategoryID `gorm:"primaryKey;size:64" json:"categoryId"`
	Slug        string     `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	DisplayName string     `gorm:"size:255;not null" json:"displayName"`
	Metadata    JSON       `json:"metadata,omitempty"`
	Active      bool       `gorm:"not null;index:idx_category_active_kind" json:"active"`
	Kind        string     `gorm:"size:32;not null;index:idx_category_active_kind" json:"kind"`
	Position    int        `gorm:"not null" json:"position"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// IsAxis reports whether the category takes part in resonance
func (c Category) IsAxis() bool {
	return c.Active && c.Kind == KindAxis
}

// CompletionFact records that a user completed a category on a day
type CompletionFact struct {
	CompletionID uint64     `gorm:"primaryKey;autoIncrement"`
	UserID       string     `gorm:"type:char(36);not null;index:idx_completion_key,unique;index:idx_completion_user_day,priority:1"`
	CategoryID   CategoryID `gorm:"size:64;not null;index:idx_completion_key,unique"`
	Day          types.Day  `gorm:"type:varchar(10);not null;index:idx_completion_key,unique;index:idx_completion_user_day,priority:2"`
	CreatedAt    time.Time
}

// ResonanceEvent is one entry of the append-only resonance log
type ResonanceEvent struct {
	EventID    string     `gorm:"primaryKey;type:char(36)" json:"eventId"`
	UserID     string     `gorm:"type:char(36);not null;index:idx_resonance_event_key,unique" json:"-"`
	CategoryID CategoryID `gorm:"size:64;not null;index:idx_resonance_event_key,unique;index:idx_resonance_event_day_category,priority:2" json:"categoryId"`
	Day        types.Day  `gorm:"type:varchar(10);not null;index:idx_resonance_event_key,unique;index:idx_resonance_event_day_category,priority:1" json:"day"`
	AxisSlug   string     `gorm:"size:64;not null" json:"axisSlug"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ConstellationAggregate is the per-day, per-axis community counter
type ConstellationAggregate struct {
	Day             types.Day `gorm:"primaryKey;type:varchar(10)" json:"day"`
	AxisSlug        string    `gorm:"primaryKey;size:64" json:"axisSlug"`
	CompletionCount int64     `gorm:"not null" json:"completionCount"`
	Intensity       float64   `gorm:"not null" json:"intensity"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}

// TableName overrides the table name for CompletionFact
func (CompletionFact) TableName() string {
	return "completions"
}

// TableName overrides the table name for ResonanceEvent
func (ResonanceEvent) TableName() string {
	return "resonance_events"
}

// TableName overrides the table name for ConstellationAggregate
func (ConstellationAggregate) TableName() string {
	return "constellation_data"
}
