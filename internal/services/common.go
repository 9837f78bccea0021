package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/resonance/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

var (
	// ErrCategoryNotFound means the category does not resolve to an active axis
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInvalidInput means a malformed user id, category id or day
	ErrInvalidInput = errors.New("invalid input")
)

// Clock decides what "today" is for callers that omit the day.
// The zero value uses time.Now in UTC.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// Today returns the current calendar day in the clock's location
func (c Clock) Today() types.Day {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return types.DayOf(now(), c.Location)
}

// resolveDay fills in today and rejects malformed days
func (c Clock) resolveDay(day types.Day) (types.Day, error) {
	if day.IsZero() {
		return c.Today(), nil
	}
	if !day.Valid() {
		return "", fmt.Errorf("%w: day %q", ErrInvalidInput, day)
	}
	return day, nil
}

// validateUserID requires the canonical uuid text the gateway hands us
func validateUserID(userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil || id == uuid.Nil || id.String() != userID {
		return fmt.Errorf("%w: user id %q", ErrInvalidInput, userID)
	}
	return nil
}

// conn prefers the caller's transaction over the base handle
func conn(base, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}

// tagged prefixes the statement with a SQL comment naming the operation,
// so engine queries are easy to spot in database logs.
func tagged(db *gorm.DB, clauseName, op string) *gorm.DB {
	return db.Clauses(hints.CommentBefore(clauseName, "resonance:"+op))
}
