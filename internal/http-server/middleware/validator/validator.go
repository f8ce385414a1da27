package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geofeatures/pkg/lib/api/response"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const features = "/api/features"

const (
	defaultLimit  = 50
	defaultOffset = 0
)

type Key string

const (
	ListFeaturesKey  = Key("list features key")
	FeatureWithIDKey = Key("feature with id key")
	CreateFeatureKey = Key("create feature key")
	UpdateFeatureKey = Key("update feature key")
)

type ListFeaturesRequest struct {
	Limit  int64 `json:"limit" validate:"min=1,max=1000"`
	Offset int64 `json:"offset" validate:"min=0"`
}

type FeatureWithID struct {
	FeatureID int64 `json:"id" validate:"gt=0"`
}

type FeatureProperties struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FeatureRequest accepts both the flat {name, description, geometry} body and
// a GeoJSON Feature carrying name and description under properties.
type FeatureRequest struct {
	FeatureID   int64              `json:"-"`
	Type        string             `json:"type,omitempty"`
	Name        string             `json:"name" validate:"required,notblank"`
	Description *string            `json:"description,omitempty"`
	Geometry    json.RawMessage    `json:"geometry" validate:"required"`
	Properties  *FeatureProperties `json:"properties,omitempty" validate:"-"`
}

// New returns the middleware validating every request under /api/features.
// Valid requests continue with the decoded request stored in the context;
// invalid ones are answered with 400 and never reach a handler.
func New(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		const op = "http-server.middleware.validator"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("validator middleware enabled")

		fn := func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimSuffix(r.URL.Path, "/")

			var (
				ctx     context.Context
				err     error
				handled = true
			)

			switch {
			case path == features && r.Method == http.MethodGet:
				ctx, err = validateListFeatures(r)
			case path == features && r.Method == http.MethodPost:
				ctx, err = validateCreateFeature(r)
			case strings.HasPrefix(path, features+"/") && !strings.Contains(path[len(features)+1:], "/"):
				switch r.Method {
				case http.MethodGet, http.MethodDelete:
					ctx, err = validateFeatureWithID(r, path)
				case http.MethodPut:
					ctx, err = validateUpdateFeature(r, path)
				default:
					handled = false
				}
			default:
				handled = false
			}

			if !handled {
				next.ServeHTTP(w, r)
				return
			}

			if err != nil {
				log.Info("bad request", slog.String("path", r.URL.Path), slog.String("method", r.Method), slog.String("reason", err.Error()))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, errorResponse(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func errorResponse(err error) response.Response {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return response.ValidationError(errs)
	}
	return response.Error(err.Error())
}

func validateListFeatures(r *http.Request) (context.Context, error) {
	req := ListFeaturesRequest{
		Limit:  defaultLimit,
		Offset: defaultOffset,
	}

	query := r.URL.Query()
	for param, dst := range map[string]*int64{"limit": &req.Limit, "offset": &req.Offset} {
		if !query.Has(param) {
			continue
		}
		num, err := strconv.ParseInt(query.Get(param), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("query parameter %s must be an integer", param)
		}
		*dst = num
	}

	if err := validate().Struct(req); err != nil {
		return nil, err
	}

	return context.WithValue(r.Context(), ListFeaturesKey, req), nil
}

func parseFeatureID(path string) (int64, error) {
	param := path[strings.LastIndex(path, "/")+1:]
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("feature id %q must be an integer", param)
	}

	req := FeatureWithID{FeatureID: id}
	if err := validate().Struct(req); err != nil {
		return 0, err
	}

	return id, nil
}

func validateFeatureWithID(r *http.Request, path string) (context.Context, error) {
	id, err := parseFeatureID(path)
	if err != nil {
		return nil, err
	}

	return context.WithValue(r.Context(), FeatureWithIDKey, FeatureWithID{FeatureID: id}), nil
}

func validateCreateFeature(r *http.Request) (context.Context, error) {
	req, err := decodeFeature(r)
	if err != nil {
		return nil, err
	}

	return context.WithValue(r.Context(), CreateFeatureKey, req), nil
}

func validateUpdateFeature(r *http.Request, path string) (context.Context, error) {
	id, err := parseFeatureID(path)
	if err != nil {
		return nil, err
	}

	req, err := decodeFeature(r)
	if err != nil {
		return nil, err
	}
	req.FeatureID = id

	return context.WithValue(r.Context(), UpdateFeatureKey, req), nil
}

func decodeFeature(r *http.Request) (FeatureRequest, error) {
	var req FeatureRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}

	if req.Properties != nil {
		if req.Name == "" {
			req.Name = req.Properties.Name
		}
		if req.Description == nil {
			req.Description = req.Properties.Description
		}
	}

	if err := validate().Struct(req); err != nil {
		return req, err
	}

	var geometry GeometryRequest
	if err := json.Unmarshal(req.Geometry, &geometry); err != nil {
		return req, fmt.Errorf("field geometry must be a GeoJSON geometry object")
	}
	if err := validate().Struct(geometry); err != nil {
		return req, err
	}

	return req, nil
}
