package validator

import (
	"bytes"
	"encoding/json"
	"geofeatures/internal/geo"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	typeGeometryCollection = "GeometryCollection"
	jsonArrayTag           = "json_array"
	geojsonShapeTag        = "geojson_shape"
)

// GeometryRequest is the shape every submitted geometry must have: a known
// type tag with a coordinates array, or a geometries array for collections.
// Positions are two-dimensional and lines and rings have their minimum length.
type GeometryRequest struct {
	Type        string          `json:"type" validate:"required,geojson_type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  json.RawMessage `json:"geometries"`
}

var validate = sync.OnceValue(newValidate)

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names so error messages match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("json")
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("geojson_type", func(fl validator.FieldLevel) bool {
		return slices.Contains(geo.Types, fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		g := sl.Current().Interface().(GeometryRequest)
		if !slices.Contains(geo.Types, g.Type) {
			return
		}

		if g.Type == typeGeometryCollection {
			if !isJSONArray(g.Geometries) {
				sl.ReportError(g.Geometries, "geometries", "Geometries", jsonArrayTag, "")
				return
			}
			var members []json.RawMessage
			if err := json.Unmarshal(g.Geometries, &members); err != nil {
				sl.ReportError(g.Geometries, "geometries", "Geometries", jsonArrayTag, "")
				return
			}
			for _, member := range members {
				if err := geo.CheckShape(member); err != nil {
					sl.ReportError(g.Geometries, "geometries", "Geometries", geojsonShapeTag, err.Error())
					return
				}
			}
			return
		}

		if !isJSONArray(g.Coordinates) {
			sl.ReportError(g.Coordinates, "coordinates", "Coordinates", jsonArrayTag, "")
			return
		}
		if err := geo.CheckCoordinates(g.Type, g.Coordinates); err != nil {
			sl.ReportError(g.Coordinates, "coordinates", "Coordinates", geojsonShapeTag, err.Error())
		}
	}, GeometryRequest{})

	return v
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 1 && trimmed[0] == '['
}
