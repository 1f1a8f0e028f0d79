package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
)

const (
	msgNotAuthorized      = "Not authorized"
	msgTokenMissing       = "Not authorized, token missing"
	msgTokenInvalid       = "Not authorized, token invalid"
	msgInvalidJSON        = "Invalid JSON was passed"
	msgInternalError      = "Internal Server Error"
	msgTaskCreated        = "Task created"
	msgTaskStatusUpdated  = "Task status updated"
	msgPasswordWasReset   = "Password has been reset"
	msgServiceUnavailable = "Service Unavailable"
)

// errorMappings is checked in order: service errors wrap store errors, so
// they come first.
var errorMappings = []struct {
	target  error
	status  int
	message string
}{
	{ErrInvalidJSON, http.StatusBadRequest, msgInvalidJSON},
	{validators.ErrValidation, http.StatusBadRequest, ""},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, msgTokenInvalid},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, msgTokenInvalid},
	{ErrNoUserInContext, http.StatusUnauthorized, msgNotAuthorized},

	{service.ErrForbidden, http.StatusForbidden, "Forbidden: insufficient permissions"},

	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrEmployeeNotFound, http.StatusNotFound, "Employee not found"},
	{service.ErrTaskNotFound, http.StatusNotFound, "Task not found"},

	{service.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
	{service.ErrEmailInUse, http.StatusConflict, "Email already in use"},

	{service.ErrStoreUnavailable, http.StatusServiceUnavailable, msgServiceUnavailable},

	{store.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{store.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
	{store.ErrEmailAlreadyExists, http.StatusConflict, "Email already in use"},
}

func statusFromError(err error) int {
	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.target) {
			return mapping.status
		}
	}
	return http.StatusInternalServerError
}

// messageFromError returns a message that is safe to show to clients.
// Unknown errors never leak their text.
func messageFromError(err error) string {
	var validationErr *validators.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	for _, mapping := range errorMappings {
		if mapping.message != "" && errors.Is(err, mapping.target) {
			return mapping.message
		}
	}
	return msgInternalError
}

// writeError logs err and answers with the mapped status and message.
func writeError(w http.ResponseWriter, r *http.Request, err error, funcName string) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Send()

	utils.WriteError(w, messageFromError(err), status)
}
