// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, role checks, logging, tracing, CORS and
// compression are all handled at this layer before requests are forwarded to
// the service layer.
package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header and resolves
// it via [service.AuthService.Authenticate] to the current state of its
// user. On success the user is stored in the request context with
// [utils.WithUser], so downstream handlers and [Handler.requireRoles] see the
// role held in the store rather than the role claimed by the token.
//
// The middleware rejects requests with HTTP 401 Unauthorized when:
//   - the header is absent or is not a bearer header ("Not authorized, token missing");
//   - the token is invalid, expired or names a user that no longer exists
//     ("Not authorized, token invalid").
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, msgTokenMissing, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			if statusFromError(err) != http.StatusUnauthorized {
				writeError(w, r, err, "Handler.auth")
				return
			}
			log.Err(err).Msg("token rejected")
			utils.WriteError(w, msgTokenInvalid, http.StatusUnauthorized)
			return
		}

		ctx = logger.WithActor(utils.WithUser(ctx, user), user.ID, string(user.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles lets through only users whose current role is one of roles.
// It must be mounted behind [Handler.auth].
func (h *Handler) requireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				writeError(w, r, ErrNoUserInContext, "Handler.requireRoles")
				return
			}
			if err := service.Authorize(user, roles...); err != nil {
				writeError(w, r, err, "Handler.requireRoles")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// currentUser returns the user placed into the context by [Handler.auth].
func currentUser(r *http.Request) (models.User, error) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		return models.User{}, ErrNoUserInContext
	}
	return user, nil
}
