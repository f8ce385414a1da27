package index

import (
	"geofeatures/pkg/lib/api/response"
	"geofeatures/pkg/lib/sl"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

const welcome = "Welcome to the Geospatial API"

type page struct {
	Title   string
	APIBase string
}

func New(log *slog.Logger, templates fs.FS) (http.HandlerFunc, error) {
	const op = "handler.Index.New"

	log = log.With(
		slog.String("op", op),
	)

	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, page{Title: "Geospatial API", APIBase: "/api"}); err != nil {
			log.Error("failed to render page", sl.Err(err))
		}
	}, nil
}

func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OK(welcome))
	}
}

func Static(assets fs.FS) http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(assets)))
}
