package model

import (
	"encoding/json"
	"geofeatures/internal/database/model"
	"time"
)

const (
	TypeFeature           = "Feature"
	TypeFeatureCollection = "FeatureCollection"
)

type Feature struct {
	Type       string          `json:"type"`
	ID         int64           `json:"id"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties Properties      `json:"properties"`
}

type Properties struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func FeatureDBtoFeatureHTTP(feature model.Feature) *Feature {
	geometry := json.RawMessage(feature.Geometry)
	if len(geometry) == 0 {
		geometry = json.RawMessage("null")
	}

	return &Feature{
		Type:     TypeFeature,
		ID:       feature.ID,
		Geometry: geometry,
		Properties: Properties{
			Name:        feature.Name,
			Description: feature.Description,
			CreatedAt:   feature.CreatedAt,
			UpdatedAt:   feature.UpdatedAt,
		},
	}
}

func FeaturesDBtoCollectionHTTP(features []model.Feature) *FeatureCollection {
	collection := &FeatureCollection{
		Type:     TypeFeatureCollection,
		Features: make([]Feature, 0, len(features)),
	}
	for _, feature := range features {
		collection.Features = append(collection.Features, *FeatureDBtoFeatureHTTP(feature))
	}
	return collection
}
