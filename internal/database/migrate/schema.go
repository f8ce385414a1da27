package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS countries (
		gid SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		geometry geometry(Geometry, 4326)
	)`,
	// Tables loaded before descriptions existed lack the column.
	`ALTER TABLE countries ADD COLUMN IF NOT EXISTS description TEXT`,
	`CREATE INDEX IF NOT EXISTS countries_geometry_idx ON countries USING GIST (geometry)`,
}

// EnsureSchema creates the PostGIS extension and the countries table when
// they are missing. Existing data is left untouched.
func EnsureSchema(ctx context.Context, log *slog.Logger, db *sqlx.DB) error {
	const op = "database.migrate.EnsureSchema"

	log = log.With(
		slog.String("op", op),
	)

	for i, stmt := range schema {
		log.Debug("schema exec", slog.Int("idx", i))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Debug("schema done")
	return nil
}
