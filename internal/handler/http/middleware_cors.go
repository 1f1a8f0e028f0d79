package http

import (
	"net/http"

	"github.com/go-chi/cors"
)

// developmentOrigins are accepted outside production in addition to the
// configured ones.
var developmentOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// withCORS builds the CORS middleware from the server configuration.
// In production with an empty allow-list no cross-origin request is accepted.
func (h *Handler) withCORS() func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", traceIDHeader},
		ExposedHeaders:   []string{"Authorization", traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}

	origins := allowedOrigins(h.cfg.AllowedOrigins, h.cfg.Production)
	if len(origins) > 0 {
		options.AllowedOrigins = origins
	} else {
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}

	return cors.Handler(options)
}

func allowedOrigins(configured []string, production bool) []string {
	origins := append([]string(nil), configured...)
	if !production {
		origins = append(origins, developmentOrigins...)
	}
	return origins
}
