package geo

import (
	gojson "github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"
)

type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

func init() {
	geojson.CustomJSONMarshaler = codec{}
	geojson.CustomJSONUnmarshaler = codec{}
}
