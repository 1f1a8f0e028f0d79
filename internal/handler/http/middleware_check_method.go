// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// Chi's default behaviour is to respond with HTTP 405 Method Not Allowed
// whenever a request path matches a registered route but the HTTP method
// is not handled. This function overrides that behaviour: if the requested
// method is not registered for the matched route, it responds the same way
// as for an unknown path (404 with a JSON message), hiding the existence of
// the route from callers that use an unsupported method.
//
// If the requested method IS registered for the path, the request is
// forwarded to the router's normal ServeHTTP pipeline so that the
// appropriate handler executes as usual. Parameterised patterns such as
// /api/tasks/{taskId} are resolved with [chi.Mux.Match].
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			notFound(w, r)
			return
		}

		router.ServeHTTP(w, r)
	}
}

// notFound answers with 404 and names the requested path.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, "Not Found - "+r.URL.Path, http.StatusNotFound)
}
