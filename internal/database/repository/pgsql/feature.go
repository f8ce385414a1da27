package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	storage "geofeatures/internal/database"
	"geofeatures/internal/database/model"
	"geofeatures/internal/geo"

	"github.com/jmoiron/sqlx"
)

const selectFeature = `
	SELECT gid AS id, name, description,
		COALESCE(ST_AsGeoJSON(geometry), 'null') AS geometry
	FROM countries`

type FeatureRepository struct {
	db *sqlx.DB
}

func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

func (f *FeatureRepository) Features(ctx context.Context, limit, offset int64) ([]model.Feature, error) {
	const op = "repository.pgsql.Features"

	features := []model.Feature{}
	err := f.db.SelectContext(ctx, &features,
		selectFeature+` ORDER BY gid LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return features, nil
}

func (f *FeatureRepository) Feature(ctx context.Context, featureID int64) (*model.Feature, error) {
	const op = "repository.pgsql.Feature"

	var feature model.Feature
	if err := f.db.GetContext(ctx, &feature, selectFeature+` WHERE gid = $1`, featureID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrFeatureNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &feature, nil
}

func (f *FeatureRepository) CreateFeature(ctx context.Context, feature *model.Feature) (int64, error) {
	const op = "repository.pgsql.CreateFeature"

	wkt, err := geo.ToWKT([]byte(feature.Geometry))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = f.db.QueryRowxContext(ctx,
		`INSERT INTO countries (geometry, name, description)
		VALUES (ST_SetSRID(ST_GeomFromText($1), $2), $3, $4)
		RETURNING gid`,
		wkt, geo.SRID, feature.Name, feature.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (f *FeatureRepository) UpdateFeature(ctx context.Context, feature *model.Feature) error {
	const op = "repository.pgsql.UpdateFeature"

	wkt, err := geo.ToWKT([]byte(feature.Geometry))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := f.db.ExecContext(ctx,
		`UPDATE countries
		SET geometry = ST_SetSRID(ST_GeomFromText($1), $2),
			name = $3,
			description = $4
		WHERE gid = $5`,
		wkt, geo.SRID, feature.Name, feature.Description, feature.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return affected(op, res)
}

func (f *FeatureRepository) DeleteFeature(ctx context.Context, featureID int64) error {
	const op = "repository.pgsql.DeleteFeature"

	res, err := f.db.ExecContext(ctx, `DELETE FROM countries WHERE gid = $1`, featureID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return affected(op, res)
}

func affected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrFeatureNotFound)
	}
	return nil
}
