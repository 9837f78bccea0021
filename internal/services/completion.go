package services

import (
	"context"
	"fmt"

	"github.com/localnerve/resonance/internal/logger"
	"github.com/localnerve/resonance/internal/metrics"
	"github.com/localnerve/resonance/internal/models"
	"github.com/localnerve/resonance/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionService writes completion facts, the trigger input of the
// resonance engine.
type CompletionService struct {
	DB         *gorm.DB
	Dispatcher *Dispatcher
	Log        *logger.Logger
	Metrics    *metrics.Resonance
	Clock      Clock
}

// CheckInInput is one check-in request item
type CheckInInput struct {
	CategoryID models.CategoryID `json:"categoryId"`
	Day        types.Day         `json:"day,omitempty"`
}

// CheckInResult reports one check-in; Created is false for a repeat
type CheckInResult struct {
	CategoryID models.CategoryID `json:"categoryId"`
	Day        types.Day         `json:"day"`
	Created    bool              `json:"created"`
}

// CheckIn records that userID completed categoryID on day. Only a fresh
// fact publishes a completion event, in the same transaction.
func (s *CompletionService) CheckIn(ctx context.Context, userID string, categoryID models.CategoryID, day types.Day) (*CheckInResult, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if categoryID == "" {
		return nil, fmt.Errorf("%w: empty category id", ErrInvalidInput)
	}
	day, err := s.Clock.resolveDay(day)
	if err != nil {
		return nil, err
	}

	result := &CheckInResult{CategoryID: categoryID, Day: day}
	var prop *Propagation

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fact := models.CompletionFact{UserID: userID, CategoryID: categoryID, Day: day}
		res := tagged(tx, "insert", "check_in").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "category_id"}, {Name: "day"}},
				DoNothing: true,
			}).
			Create(&fact)
		if res.Error != nil {
			return fmt.Errorf("insert completion: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		result.Created = true
		prop = NewPropagation(tx)
		if s.Dispatcher != nil {
			s.Dispatcher.Publish(ctx, prop, CompletionEvent{UserID: userID, CategoryID: categoryID, Day: day})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if prop != nil {
		prop.Committed(ctx)
	}
	if result.Created {
		s.Metrics.Completion("created")
	} else {
		s.Metrics.Completion("repeat")
	}
	return result, nil
}

// CheckInMany checks in each item on its own; the first hard failure
// stops the batch and is returned with the results so far.
func (s *CompletionService) CheckInMany(ctx context.Context, userID string, items []CheckInInput) ([]CheckInResult, error) {
	results := make([]CheckInResult, 0, len(items))
	for _, item := range items {
		res, err := s.CheckIn(ctx, userID, item.CategoryID, item.Day)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Uncheck removes a completion fact. The resonance log and the
// constellation keep the completion: the community signal means "was
// completed that day", so un-checking changes only the caller's own
// completed flag.
func (s *CompletionService) Uncheck(ctx context.Context, userID string, categoryID models.CategoryID, day types.Day) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	day, err := s.Clock.resolveDay(day)
	if err != nil {
		return false, err
	}

	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND day = ?", userID, categoryID, day).
		Delete(&models.CompletionFact{})
	if res.Error != nil {
		return false, fmt.Errorf("delete completion: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.Metrics.Completion("removed")
	}
	return res.RowsAffected > 0, nil
}
