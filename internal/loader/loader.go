// Package loader appends the features of a GeoJSON file to the countries
// table in a single COPY. It is a one-shot job: running it twice inserts the
// rows twice.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"geofeatures/internal/config"
	"geofeatures/internal/geo"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/paulmach/orb/geojson"
)

const table = "countries"

// Row is one feature ready for COPY; Geometry is EWKT in EPSG:4326.
type Row struct {
	Name     string
	Geometry string
}

// Read decodes path as a FeatureCollection. A file holding a single Feature
// is wrapped into a collection of one.
func Read(path string) (*geojson.FeatureCollection, error) {
	const op = "loader.Read"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := checkShapes(data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil {
		return fc, nil
	}

	f, ferr := geojson.UnmarshalFeature(data)
	if ferr != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fc = geojson.NewFeatureCollection()
	fc.Append(f)
	return fc, nil
}

type rawFeature struct {
	Geometry json.RawMessage `json:"geometry"`
}

type rawCollection struct {
	Features []rawFeature   `json:"features"`
	Geometry json.RawMessage `json:"geometry"`
}

// checkShapes runs geo.CheckShape on every geometry in data before orb
// decodes it.
func checkShapes(data []byte) error {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		// Left for the geojson decoder to report.
		return nil
	}

	features := raw.Features
	if features == nil {
		features = []rawFeature{{Geometry: raw.Geometry}}
	}

	for i, f := range features {
		if len(f.Geometry) == 0 || string(f.Geometry) == "null" {
			continue
		}
		if err := geo.CheckShape(f.Geometry); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}
	return nil
}

// Prepare normalizes every geometry of fc to WGS84 and names the features
// that have no name. Features without geometry are dropped.
func Prepare(fc *geojson.FeatureCollection, defaultName string) ([]Row, error) {
	const op = "loader.Prepare"

	srid, err := geo.SRIDFromCRS(fc.ExtraMembers["crs"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := make([]Row, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}

		g, err := geo.ToWGS84(f.Geometry, srid)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		name, _ := f.Properties["name"].(string)
		if name == "" {
			name = defaultName
		}

		rows = append(rows, Row{
			Name:     name,
			Geometry: geo.EWKT(g, geo.SRID),
		})
	}

	return rows, nil
}

// Write copies rows into the countries table. COPY runs inside its own
// transaction, so a failure leaves no partial rows behind.
func Write(ctx context.Context, db *sqlx.DB, rows []Row) error {
	const op = "loader.Write"

	txn, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer txn.Rollback()

	stmt, err := txn.PrepareContext(ctx, pq.CopyIn(table, "name", "geometry"))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Name, row.Geometry); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := stmt.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Run loads cfg.Path into db. Errors are logged, not returned: the result
// reports whether the load succeeded.
func Run(ctx context.Context, log *slog.Logger, db *sqlx.DB, cfg config.Loader) bool {
	const op = "loader.Run"

	log = log.With(
		slog.String("op", op),
		slog.String("path", cfg.Path),
	)

	log.Info("reading geojson file")
	fc, err := Read(cfg.Path)
	if err != nil {
		log.Error("failed to read geojson", sl.Err(err))
		return false
	}

	rows, err := Prepare(fc, cfg.DefaultName)
	if err != nil {
		log.Error("failed to normalize features", sl.Err(err))
		return false
	}
	if skipped := len(fc.Features) - len(rows); skipped > 0 {
		log.Warn("features without geometry skipped", slog.Int("count", skipped))
	}
	if len(rows) == 0 {
		log.Warn("no features to load")
		return true
	}

	log.Info("writing to database", slog.Int("rows", len(rows)))
	if err := Write(ctx, db, rows); err != nil {
		log.Error("failed to write features", sl.Err(err))
		return false
	}

	log.Info("data loaded successfully", slog.Int("rows", len(rows)))
	return true
}
