package update

import (
	"context"
	"errors"
	storage "geofeatures/internal/database"
	"geofeatures/internal/database/model"
	"geofeatures/internal/http-server/middleware/validator"
	"geofeatures/pkg/lib/api/response"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type FeatureUpdater interface {
	UpdateFeature(ctx context.Context, feature *model.Feature) error
}

// New replaces name, description and geometry as a whole; a field left out of
// the request is cleared rather than kept.
func New(log *slog.Logger, featureUpdater FeatureUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.Feature.Update.New"

		log := log.With(
			slog.String("op", op),
		)

		log.Info("updating feature")

		req, ok := r.Context().Value(validator.UpdateFeatureKey).(validator.FeatureRequest)
		if !ok {
			log.Error("failed to convert to request")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error(response.ErrServerInternal.Error()))
			return
		}

		feature := &model.Feature{
			ID:          req.FeatureID,
			Name:        req.Name,
			Description: req.Description,
			Geometry:    string(req.Geometry),
		}

		err := featureUpdater.UpdateFeature(r.Context(), feature)
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

		log.Info("feature updated", slog.Int64("id", req.FeatureID))
		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.OK("Feature updated successfully"))
	}
}
