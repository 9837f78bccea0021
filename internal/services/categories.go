package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/localnerve/resonance/internal/models"
	"gorm.io/gorm"
)

// categoryNamespace derives stable category ids from slugs when seeding
var categoryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.localnerve.com/resonance/categories"))

// CategoryRegistry reads the category registry. The engine never writes
// to it apart from seeding an empty registry.
type CategoryRegistry struct {
	DB *gorm.DB
}

// CategorySeed is one entry of the embedded default registry
type CategorySeed struct {
	Slug        string          `json:"slug"`
	DisplayName string          `json:"displayName"`
	Position    int             `json:"position"`
	Kind        string          `json:"kind,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// SeedCategoryID returns the id a seeded category gets for slug
func SeedCategoryID(slug string) models.CategoryID {
	return models.CategoryID(uuid.NewSHA1(categoryNamespace, []byte(slug)).String())
}

// ResolveAxis returns the category if it is an active axis, otherwise
// ErrCategoryNotFound.
func (r *CategoryRegistry) ResolveAxis(ctx context.Context, tx *gorm.DB, id models.CategoryID) (*models.Category, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty category id", ErrCategoryNotFound)
	}

	var found []models.Category
	err := tagged(conn(r.DB, tx), "select", "resolve_axis").WithContext(ctx).
		Where("category_id = ? AND active = ? AND kind = ?", id, true, models.KindAxis).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("resolve category %s: %w", id, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return &found[0], nil
}

// ListAxes returns every active axis in display order
func (r *CategoryRegistry) ListAxes(ctx context.Context, tx *gorm.DB) ([]models.Category, error) {
	var axes []models.Category
	err := tagged(conn(r.DB, tx), "select", "list_axes").WithContext(ctx).
		Where("active = ? AND kind = ?", true, models.KindAxis).
		Order("position ASC").
		Order("slug ASC").
		Find(&axes).Error
	if err != nil {
		return nil, fmt.Errorf("list axes: %w", err)
	}
	return axes, nil
}

// Seed inserts the given categories when the registry is empty and
// reports how many were created.
func (r *CategoryRegistry) Seed(ctx context.Context, raw []byte) (int, error) {
	var seeds []CategorySeed
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return 0, fmt.Errorf("parse category seed: %w", err)
	}

	created := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, seed := range seeds {
			if seed.Slug == "" {
				return fmt.Errorf("category seed without slug")
			}
			kind := seed.Kind
			if kind == "" {
				kind = models.KindAxis
			}
			cat := models.Category{
				CategoryID:  SeedCategoryID(seed.Slug),
				Slug:        seed.Slug,
				DisplayName: seed.DisplayName,
				Metadata:    models.NewJSON(seed.Metadata),
				Active:      true,
				Kind:        kind,
				Position:    seed.Position,
			}
			if err := tx.Create(&cat).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", seed.Slug, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
