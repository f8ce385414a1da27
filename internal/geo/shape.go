package geo

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Minimum number of positions per part. Rings must also be closed.
const (
	minLinePositions = 2
	minRingPositions = 4
)

type position []float64

type shape struct {
	Type        string              `json:"type"`
	Coordinates gojson.RawMessage   `json:"coordinates"`
	Geometries  []gojson.RawMessage `json:"geometries"`
}

// CheckShape reports whether raw is a GeoJSON geometry that converts to WKT
// without losing or inventing ordinates. Only two-dimensional positions are
// accepted.
func CheckShape(raw []byte) error {
	var s shape
	if err := gojson.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	if s.Type == "GeometryCollection" {
		for i, member := range s.Geometries {
			if err := CheckShape(member); err != nil {
				return fmt.Errorf("geometries[%d]: %w", i, err)
			}
		}
		return nil
	}

	return CheckCoordinates(s.Type, s.Coordinates)
}

// CheckCoordinates validates the nesting and arity of coordinates for the
// geometry type typ.
func CheckCoordinates(typ string, coordinates []byte) error {
	var err error

	switch typ {
	case "Point":
		var p position
		if err = decodeCoordinates(coordinates, &p); err == nil {
			err = checkPosition(p)
		}
	case "MultiPoint":
		var ps []position
		if err = decodeCoordinates(coordinates, &ps); err == nil {
			err = checkPositions(ps, 0)
		}
	case "LineString":
		var ls []position
		if err = decodeCoordinates(coordinates, &ls); err == nil {
			err = checkPositions(ls, minLinePositions)
		}
	case "MultiLineString":
		var mls [][]position
		if err = decodeCoordinates(coordinates, &mls); err == nil {
			for _, ls := range mls {
				if err = checkPositions(ls, minLinePositions); err != nil {
					break
				}
			}
		}
	case "Polygon":
		var rings [][]position
		if err = decodeCoordinates(coordinates, &rings); err == nil {
			err = checkRings(rings)
		}
	case "MultiPolygon":
		var polygons [][][]position
		if err = decodeCoordinates(coordinates, &polygons); err == nil {
			for _, rings := range polygons {
				if err = checkRings(rings); err != nil {
					break
				}
			}
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidGeometry, typ)
	}

	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidGeometry, typ, err)
	}
	return nil
}

func decodeCoordinates(coordinates []byte, dst interface{}) error {
	if len(coordinates) == 0 {
		return fmt.Errorf("coordinates missing")
	}
	if err := gojson.Unmarshal(coordinates, dst); err != nil {
		return fmt.Errorf("coordinates nested wrongly")
	}
	return nil
}

func checkPosition(p position) error {
	if len(p) != 2 {
		return fmt.Errorf("position needs 2 ordinates, got %d", len(p))
	}
	return nil
}

func checkPositions(ps []position, minLen int) error {
	if len(ps) < minLen {
		return fmt.Errorf("needs at least %d positions, got %d", minLen, len(ps))
	}
	for _, p := range ps {
		if err := checkPosition(p); err != nil {
			return err
		}
	}
	return nil
}

func checkRings(rings [][]position) error {
	for _, ring := range rings {
		if err := checkPositions(ring, minRingPositions); err != nil {
			return fmt.Errorf("ring %w", err)
		}
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			return fmt.Errorf("ring is not closed")
		}
	}
	return nil
}
