package repository

import (
	"context"
	"geofeatures/internal/database/model"
)

type FeatureRepository interface {
	Features(ctx context.Context, limit, offset int64) ([]model.Feature, error)
	Feature(ctx context.Context, featureID int64) (*model.Feature, error)
	CreateFeature(ctx context.Context, feature *model.Feature) (int64, error)
	UpdateFeature(ctx context.Context, feature *model.Feature) error
	DeleteFeature(ctx context.Context, featureID int64) error
}
