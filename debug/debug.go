// Package debug exposes the glossify control surface over HTTP. It is
// operational tooling only; the core engine never depends on it.
package debug

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ZaguanLabs/glossify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewHandler returns an HTTP handler dispatching to the controller.
//
//	GET  /stats            - engine and tracker counters
//	POST /commands/{name}  - named command with a JSON object of arguments
func NewHandler(ctrl *glossify.Controller, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		result, err := ctrl.Execute(req.Context(), "stats", nil)
		writeResult(w, log, result, err)
	})

	r.Post("/commands/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")

		var args map[string]any
		if req.Body != nil {
			// An empty body means no arguments.
			_ = json.NewDecoder(req.Body).Decode(&args)
		}

		result, err := ctrl.Execute(req.Context(), name, args)
		writeResult(w, log, result, err)
	})

	return r
}

func writeResult(w http.ResponseWriter, log *slog.Logger, result *glossify.CommandResult, err error) {
	w.Header().Set("Content-Type", "application/json")

	if err != nil {
		status := http.StatusInternalServerError
		var cmdErr *glossify.CommandError
		switch {
		case errors.As(err, &cmdErr):
			status = http.StatusBadRequest
		case errors.Is(err, glossify.ErrPassInProgress):
			status = http.StatusConflict
		}
		log.Warn("command failed", "error", err)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	_ = json.NewEncoder(w).Encode(result)
}
