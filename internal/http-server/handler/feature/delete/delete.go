package delete

import (
	"context"
	"errors"
	storage "geofeatures/internal/database"
	"geofeatures/internal/http-server/middleware/validator"
	"geofeatures/pkg/lib/api/response"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type FeatureDeleter interface {
	DeleteFeature(ctx context.Context, featureID int64) error
}

func New(log *slog.Logger, featureDeleter FeatureDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Feature.Delete.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("deleting feature")

		req, ok := r.Context().Value(validator.FeatureWithIDKey).(validator.FeatureWithID)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		log.Info("request decoded", slog.Any("request", req))

		err := featureDeleter.DeleteFeature(r.Context(), req.FeatureID)
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

		log.Info("feature deleted", slog.Int64("id", req.FeatureID))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.OK("Feature deleted successfully"))
	}
}
