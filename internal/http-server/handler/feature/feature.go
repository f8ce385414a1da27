package feature

import (
	"context"
	"geofeatures/internal/database/model"
	"geofeatures/internal/http-server/middleware/validator"
	httpFeature "geofeatures/internal/http-server/model"
	"geofeatures/pkg/lib/api/response"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type FeatureProvider interface {
	Features(ctx context.Context, limit, offset int64) ([]model.Feature, error)
}

func New(log *slog.Logger, featureProvider FeatureProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Feature.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("providing features")

		req, ok := r.Context().Value(validator.ListFeaturesKey).(validator.ListFeaturesRequest)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("request decoded", slog.Any("request", req))

		features, err := featureProvider.Features(r.Context(), req.Limit, req.Offset)
		if err != nil {
			log.Error("internal error", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		log.Info("features provided", slog.Int("count", len(features)))
		render.JSON(w, r, httpFeature.FeaturesDBtoCollectionHTTP(features))
	}
}
