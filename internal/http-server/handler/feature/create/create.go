package create

import (
	"context"
	"geofeatures/internal/database/model"
	"geofeatures/internal/http-server/middleware/validator"
	"geofeatures/pkg/lib/api/response"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type FeatureCreator interface {
	CreateFeature(ctx context.Context, feature *model.Feature) (int64, error)
}

type Response struct {
	response.Response
	ID int64 `json:"id"`
}

func New(log *slog.Logger, featureCreator FeatureCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Feature.Create.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("creating feature")

		req, ok := r.Context().Value(validator.CreateFeatureKey).(validator.FeatureRequest)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		feature := &model.Feature{
			Name:        req.Name,
			Description: req.Description,
			Geometry:    string(req.Geometry),
		}

		log.Debug("decoded feature", slog.String("name", feature.Name))

		id, err := featureCreator.CreateFeature(r.Context(), feature)
		if err != nil {
			log.Error("internal error", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		log.Info("feature created", slog.Int64("id", id))
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: response.OK("Feature created successfully"),
			ID:       id,
		})
	}
}
