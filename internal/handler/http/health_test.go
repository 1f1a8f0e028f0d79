package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checkErr   error
		wantStatus int
		wantBody   string
	}{
		{name: "store reachable", wantStatus: http.StatusOK, wantBody: healthStatusOK},
		{name: "store down", checkErr: fmt.Errorf("%w: %w", service.ErrStoreUnavailable, errors.New("refused")), wantStatus: http.StatusServiceUnavailable, wantBody: healthStatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{HealthService: &mockHealthService{err: tt.checkErr}})

			rec := httptest.NewRecorder()
			h.health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			response := decodeResponse[models.HealthResponse](t, rec)
			assert.Equal(t, tt.wantBody, response.Status)
			assert.False(t, response.Timestamp.IsZero())
		})
	}
}

func TestVersion(t *testing.T) {
	h := newTestHandler(t, &service.Services{AppInfoService: &mockAppInfoService{version: "1.4.2"}})

	rec := httptest.NewRecorder()
	h.version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1.4.2", rec.Body.String())
}
