package get

import (
	"context"
	"errors"
	storage "geofeatures/internal/database"
	"geofeatures/internal/database/model"
	"geofeatures/internal/http-server/middleware/validator"
	httpFeature "geofeatures/internal/http-server/model"
	"geofeatures/pkg/lib/api/response"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type FeatureGetter interface {
	Feature(ctx context.Context, featureID int64) (*model.Feature, error)
}

func New(log *slog.Logger, featureGetter FeatureGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Feature.Get.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("getting feature")

		req, ok := r.Context().Value(validator.FeatureWithIDKey).(validator.FeatureWithID)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("request decoded", slog.Any("request", req))

		feature, err := featureGetter.Feature(r.Context(), req.FeatureID)
		if err != nil {
			if errors.Is(err, storage.ErrFeatureNotFound) {
				log.Info("feature not found", slog.Int64("id", req.FeatureID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error(response.ErrFeatureNotFound.Error()))
			} else {
				log.Error("internal error", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(err.Error()))
			}
			return
		}

		log.Info("feature provided")
		render.JSON(w, r, httpFeature.FeatureDBtoFeatureHTTP(*feature))
	}
}
