// Package geo converts GeoJSON geometries into the text forms PostGIS accepts
// and normalizes coordinate reference systems to WGS84.
package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// SRID of WGS84 longitude/latitude, the only reference system stored.
const SRID = 4326

var ErrInvalidGeometry = errors.New("invalid geojson geometry")

// Types lists the GeoJSON geometry type tags.
var Types = []string{
	"Point",
	"MultiPoint",
	"LineString",
	"MultiLineString",
	"Polygon",
	"MultiPolygon",
	"GeometryCollection",
}

// Parse decodes a GeoJSON geometry object. Geometries that fail CheckShape
// are rejected rather than padded or truncated to two dimensions.
func Parse(raw []byte) (orb.Geometry, error) {
	const op = "geo.Parse"

	if err := CheckShape(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidGeometry, err)
	}

	geom := g.Geometry()
	if geom == nil {
		return nil, fmt.Errorf("%s: %w: empty geometry", op, ErrInvalidGeometry)
	}

	return geom, nil
}

// ToWKT converts a GeoJSON geometry object to well-known text.
func ToWKT(raw []byte) (string, error) {
	geom, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return wkt.MarshalString(geom), nil
}

// EWKT renders geom as extended well-known text tagged with srid, the form
// geometry_in accepts in COPY input.
func EWKT(geom orb.Geometry, srid int) string {
	return fmt.Sprintf("SRID=%d;%s", srid, wkt.MarshalString(geom))
}
