package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/routes-report/api/responses"
)

// CORS lets the dashboard fetch reports and read download names cross-origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", responses.RequestIDHeader, "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", responses.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
