package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	healthStatusOK          = "ok"
	healthStatusUnavailable = "unavailable"
)

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{Status: healthStatusOK, Timestamp: time.Now().UTC()}

	if err := h.services.HealthService.Check(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "Handler.health").Msg("health check failed")
		response.Status = healthStatusUnavailable
		utils.WriteJSON(w, response, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// version answers with the bare version string, as text.
func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.services.AppInfoService.GetAppVersion(r.Context())))
}
