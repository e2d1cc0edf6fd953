package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/middleware"
	"github.com/vasapolrittideah/account-api/shared/apperror"
	"github.com/vasapolrittideah/account-api/shared/logger"
	"github.com/vasapolrittideah/account-api/shared/response"
)

const healthcheckTimeout = 3 * time.Second

// NewRouter builds the service's HTTP handler.
func NewRouter(
	log *zerolog.Logger,
	authHandler *AuthHTTPHandler,
	gate *middleware.Gate,
	healthcheck func(context.Context) error,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(logger.HTTPMiddleware(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health", health(healthcheck))

	authHandler.RegisterRoutes(r, gate)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusNotFound, response.Body{
		Message: "Route not found: " + r.Method + " " + r.URL.Path,
		Code:    apperror.CodeRouteNotFound,
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func health(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
			defer cancel()

			if err := check(ctx); err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("healthcheck failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(healthResponse{Status: "SERVER DOWN"})
				return
			}
		}

		_ = json.NewEncoder(w).Encode(healthResponse{Status: "SERVER UP"})
	}
}
