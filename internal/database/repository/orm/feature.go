package orm

import (
	"context"
	"errors"
	"fmt"
	storage "geofeatures/internal/database"
	"geofeatures/internal/database/model"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Feature is the gorm row of the features table. Geometry is kept exactly as
// submitted; no reference system is attached to it.
type Feature struct {
	ID          int64          `gorm:"primaryKey"`
	Name        string         `gorm:"not null"`
	Description *string
	Geometry    datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Feature) TableName() string { return "features" }

func (f Feature) toModel() model.Feature {
	createdAt, updatedAt := f.CreatedAt, f.UpdatedAt
	return model.Feature{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Geometry:    string(f.Geometry),
		CreatedAt:   &createdAt,
		UpdatedAt:   &updatedAt,
	}
}

type FeatureRepository struct {
	db *gorm.DB
}

func NewFeatureRepository(db *gorm.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

// Migrate creates or updates the features table.
func (f *FeatureRepository) Migrate(ctx context.Context) error {
	const op = "repository.orm.Migrate"

	if err := f.db.WithContext(ctx).AutoMigrate(&Feature{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (f *FeatureRepository) Features(ctx context.Context, limit, offset int64) ([]model.Feature, error) {
	const op = "repository.orm.Features"

	var rows []Feature
	err := f.db.WithContext(ctx).
		Order("id").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	features := make([]model.Feature, 0, len(rows))
	for _, row := range rows {
		features = append(features, row.toModel())
	}

	return features, nil
}

func (f *FeatureRepository) Feature(ctx context.Context, featureID int64) (*model.Feature, error) {
	const op = "repository.orm.Feature"

	var row Feature
	if err := f.db.WithContext(ctx).First(&row, featureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrFeatureNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	feature := row.toModel()
	return &feature, nil
}

func (f *FeatureRepository) CreateFeature(ctx context.Context, feature *model.Feature) (int64, error) {
	const op = "repository.orm.CreateFeature"

	row := Feature{
		Name:        feature.Name,
		Description: feature.Description,
		Geometry:    datatypes.JSON(feature.Geometry),
	}
	if err := f.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return row.ID, nil
}

func (f *FeatureRepository) UpdateFeature(ctx context.Context, feature *model.Feature) error {
	const op = "repository.orm.UpdateFeature"

	res := f.db.WithContext(ctx).
		Model(&Feature{ID: feature.ID}).
		Updates(map[string]interface{}{
			"name":        feature.Name,
			"description": feature.Description,
			"geometry":    datatypes.JSON(feature.Geometry),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrFeatureNotFound)
	}

	return nil
}

func (f *FeatureRepository) DeleteFeature(ctx context.Context, featureID int64) error {
	const op = "repository.orm.DeleteFeature"

	res := f.db.WithContext(ctx).Delete(&Feature{}, featureID)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrFeatureNotFound)
	}

	return nil
}
