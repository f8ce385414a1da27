package geo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

var ErrUnsupportedCRS = errors.New("unsupported coordinate reference system")

var epsgPattern = regexp.MustCompile(`(?i)EPSG:+(?:[\d.]*:)?(\d+)$`)

// Web Mercator and its historical aliases.
var mercatorSRIDs = map[int]bool{
	3857:   true,
	3785:   true,
	900913: true,
	102100: true,
	102113: true,
}

// SRIDFromCRS reads the legacy GeoJSON "crs" member. A nil member means no
// reference system was declared and yields 0.
func SRIDFromCRS(member interface{}) (int, error) {
	const op = "geo.SRIDFromCRS"

	if member == nil {
		return 0, nil
	}

	crs, ok := member.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("%s: %w: malformed crs member", op, ErrUnsupportedCRS)
	}
	props, _ := crs["properties"].(map[string]interface{})
	typ, _ := crs["type"].(string)

	switch strings.ToLower(typ) {
	case "name":
		name, _ := props["name"].(string)
		return sridFromName(name)
	case "epsg":
		switch code := props["code"].(type) {
		case float64:
			return int(code), nil
		case string:
			n, err := strconv.Atoi(code)
			if err != nil {
				return 0, fmt.Errorf("%s: %w: epsg code %q", op, ErrUnsupportedCRS, code)
			}
			return n, nil
		}
	}

	return 0, fmt.Errorf("%s: %w: crs type %q", op, ErrUnsupportedCRS, typ)
}

func sridFromName(name string) (int, error) {
	const op = "geo.sridFromName"

	upper := strings.ToUpper(strings.TrimSpace(name))
	if strings.HasSuffix(upper, "CRS84") {
		return SRID, nil
	}

	m := epsgPattern.FindStringSubmatch(upper)
	if m == nil {
		return 0, fmt.Errorf("%s: %w: %q", op, ErrUnsupportedCRS, name)
	}

	return strconv.Atoi(m[1])
}

// ToWGS84 reprojects geom from srid into EPSG:4326. An srid of 0 is treated
// as already being WGS84.
func ToWGS84(geom orb.Geometry, srid int) (orb.Geometry, error) {
	const op = "geo.ToWGS84"

	switch {
	case srid == 0 || srid == SRID:
		return geom, nil
	case mercatorSRIDs[srid]:
		return project.Geometry(geom, project.Mercator.ToWGS84), nil
	}

	return nil, fmt.Errorf("%s: %w: EPSG:%d", op, ErrUnsupportedCRS, srid)
}
