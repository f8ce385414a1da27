package geo

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

func TestToWKT(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "point",
			raw:  `{"type":"Point","coordinates":[77.5,12.9]}`,
			want: "POINT(77.5 12.9)",
		},
		{
			name: "polygon",
			raw:  `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
			want: "POLYGON((0 0,1 0,1 1,0 0))",
		},
		{
			name: "linestring",
			raw:  `{"type":"LineString","coordinates":[[1,2],[3,4]]}`,
			want: "LINESTRING(1 2,3 4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToWKT([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ToWKT failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToWKT = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToWKT_GeometryCollection(t *testing.T) {
	raw := `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}]}`

	got, err := ToWKT([]byte(raw))
	if err != nil {
		t.Fatalf("ToWKT failed: %v", err)
	}
	if !strings.HasPrefix(got, "GEOMETRYCOLLECTION(") || !strings.Contains(got, "POINT(1 2)") {
		t.Errorf("unexpected collection wkt %q", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{
		`{"type":"Hexagon","coordinates":[1,2]}`,
		`{"type":"Point","coordinates":"north"}`,
		`not json`,
	} {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("Parse(%s): expected ErrInvalidGeometry, got %v", raw, err)
		}
	}
}

// TestToWKT_RejectsMalformedPositions verifies that positions are never padded
// with zeros or truncated to two ordinates.
func TestToWKT_RejectsMalformedPositions(t *testing.T) {
	for _, raw := range []string{
		`{"type":"Point","coordinates":[]}`,
		`{"type":"Point","coordinates":[1]}`,
		`{"type":"Point","coordinates":[[1,2]]}`,
		`{"type":"Point","coordinates":[1,2,3]}`,
		`{"type":"MultiPoint","coordinates":[[1,2],[3]]}`,
		`{"type":"LineString","coordinates":[[1,2]]}`,
		`{"type":"LineString","coordinates":[1,2]}`,
		`{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2]]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,0]]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}`,
		`{"type":"MultiPolygon","coordinates":[[[[0,0,5],[1,0,5],[1,1,5],[0,0,5]]]]}`,
		`{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1]}]}`,
	} {
		if got, err := ToWKT([]byte(raw)); !errors.Is(err, ErrInvalidGeometry) {
			t.Errorf("ToWKT(%s) = %q, %v; expected ErrInvalidGeometry", raw, got, err)
		}
	}
}

func TestCheckShape_Valid(t *testing.T) {
	for _, raw := range []string{
		`{"type":"MultiPoint","coordinates":[]}`,
		`{"type":"MultiLineString","coordinates":[[[0,0],[1,1]]]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]],[[0.2,0.2],[0.4,0.2],[0.4,0.4],[0.2,0.2]]]}`,
		`{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]]]}`,
		`{"type":"GeometryCollection","geometries":[]}`,
	} {
		if err := CheckShape([]byte(raw)); err != nil {
			t.Errorf("CheckShape(%s): %v", raw, err)
		}
	}
}

func TestEWKT(t *testing.T) {
	got := EWKT(orb.Point{77.5, 12.9}, SRID)
	if got != "SRID=4326;POINT(77.5 12.9)" {
		t.Errorf("EWKT = %q", got)
	}
}

func TestSRIDFromCRS(t *testing.T) {
	named := func(name string) map[string]interface{} {
		return map[string]interface{}{
			"type":       "name",
			"properties": map[string]interface{}{"name": name},
		}
	}

	tests := []struct {
		name   string
		member interface{}
		want   int
	}{
		{"undeclared", nil, 0},
		{"urn epsg", named("urn:ogc:def:crs:EPSG::3857"), 3857},
		{"short epsg", named("EPSG:4326"), 4326},
		{"versioned epsg", named("urn:ogc:def:crs:EPSG:6.6:32643"), 32643},
		{"crs84", named("urn:ogc:def:crs:OGC:1.3:CRS84"), 4326},
		{"epsg type", map[string]interface{}{
			"type":       "EPSG",
			"properties": map[string]interface{}{"code": float64(3857)},
		}, 3857},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SRIDFromCRS(tt.member)
			if err != nil {
				t.Fatalf("SRIDFromCRS failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SRIDFromCRS = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSRIDFromCRS_Unsupported(t *testing.T) {
	for _, member := range []interface{}{
		"EPSG:4326",
		map[string]interface{}{"type": "link", "properties": map[string]interface{}{"href": "http://example.com"}},
		map[string]interface{}{"type": "name", "properties": map[string]interface{}{"name": "local grid"}},
	} {
		if _, err := SRIDFromCRS(member); !errors.Is(err, ErrUnsupportedCRS) {
			t.Errorf("SRIDFromCRS(%v): expected ErrUnsupportedCRS, got %v", member, err)
		}
	}
}

func TestToWGS84(t *testing.T) {
	p := orb.Point{77.5, 12.9}

	for _, srid := range []int{0, SRID} {
		got, err := ToWGS84(p, srid)
		if err != nil {
			t.Fatalf("ToWGS84(%d) failed: %v", srid, err)
		}
		if got.(orb.Point) != p {
			t.Errorf("ToWGS84(%d) moved the point to %v", srid, got)
		}
	}
}

func TestToWGS84_Mercator(t *testing.T) {
	// Web Mercator coordinates of lon 77.5, lat 12.9.
	merc := orb.Point{8627260.54, 1448309.80}

	got, err := ToWGS84(merc, 3857)
	if err != nil {
		t.Fatalf("ToWGS84 failed: %v", err)
	}
	p := got.(orb.Point)
	if math.Abs(p.Lon()-77.5) > 1e-5 || math.Abs(p.Lat()-12.9) > 1e-5 {
		t.Errorf("expected about (77.5, 12.9), got %v", p)
	}
}

func TestToWGS84_Unsupported(t *testing.T) {
	if _, err := ToWGS84(orb.Point{1, 2}, 32643); !errors.Is(err, ErrUnsupportedCRS) {
		t.Errorf("expected ErrUnsupportedCRS, got %v", err)
	}
}
