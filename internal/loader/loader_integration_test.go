//go:build integration

package loader_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"geofeatures/internal/config"
	"geofeatures/internal/database/driver"
	"geofeatures/internal/database/migrate"
	"geofeatures/internal/loader"
	"geofeatures/internal/testinfra"

	"github.com/jmoiron/sqlx"
)

func openDatabase(t *testing.T) *sqlx.DB {
	t.Helper()

	pg := testinfra.StartPostGIS(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	cfg := driver.SQLXConfig{
		DriverName:     pg.Server.DriverName,
		DataSourceName: pg.DSN(),
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		MaxLifetime:    pg.Server.MaxLifetime,
	}
	db, err := cfg.NewSQLXDatabase(ctx, log)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrate.EnsureSchema(ctx, log, db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

type loaded struct {
	Name string  `db:"name"`
	SRID int     `db:"srid"`
	X    float64 `db:"x"`
	Y    float64 `db:"y"`
}

func TestRun_LoadsCollection(t *testing.T) {
	db := openDatabase(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "karnataka.geojson")
	data := `{
		"type": "FeatureCollection",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::3857"}},
		"features": [
			{"type": "Feature", "properties": {"name": "Bengaluru"},
			 "geometry": {"type": "Point", "coordinates": [8627260.54, 1448309.80]}},
			{"type": "Feature", "properties": {},
			 "geometry": {"type": "Point", "coordinates": [0, 0]}},
			{"type": "Feature", "properties": {"name": "nothing"}, "geometry": null}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !loader.Run(ctx, log, db, config.Loader{Path: path, DefaultName: "Karnataka Region"}) {
		t.Fatal("expected load to succeed")
	}

	var rows []loaded
	err := db.SelectContext(ctx, &rows, `
		SELECT name, ST_SRID(geometry) AS srid, ST_X(geometry) AS x, ST_Y(geometry) AS y
		FROM countries ORDER BY gid`)
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Name != "Bengaluru" || rows[1].Name != "Karnataka Region" {
		t.Errorf("unexpected names %+v", rows)
	}
	for _, r := range rows {
		if r.SRID != 4326 {
			t.Errorf("expected srid 4326, got %d", r.SRID)
		}
	}
	if d := rows[0].X - 77.5; d > 1e-5 || d < -1e-5 {
		t.Errorf("expected longitude 77.5, got %v", rows[0].X)
	}
	if d := rows[0].Y - 12.9; d > 1e-5 || d < -1e-5 {
		t.Errorf("expected latitude 12.9, got %v", rows[0].Y)
	}
}

// TestWrite_Atomic verifies that a failing row leaves the table untouched.
func TestWrite_Atomic(t *testing.T) {
	db := openDatabase(t)
	ctx := context.Background()

	err := loader.Write(ctx, db, []loader.Row{
		{Name: "good", Geometry: "SRID=4326;POINT(1 2)"},
		{Name: "bad", Geometry: "SRID=4326;POINT(not a number)"},
	})
	if err == nil {
		t.Fatal("expected write to fail")
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT count(*) FROM countries`); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected no rows after failed write, got %d", count)
	}
}
