// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// auth
// ─────────────────────────────────────────────

func TestAuth(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
		wantUser    string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantUser: testEmployee.ID},
		{name: "scheme is case-insensitive", header: "bearer good", wantStatus: http.StatusOK, wantUser: testEmployee.ID},
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized, wantMessage: msgTokenMissing},
		{name: "wrong scheme", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized, wantMessage: msgTokenMissing},
		{name: "scheme without token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantMessage: msgTokenMissing},
		{name: "unknown token", header: "Bearer forged", wantStatus: http.StatusUnauthorized, wantMessage: msgTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{AuthService: tokenAuth(map[string]models.User{"good": testEmployee})})

			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = utils.GetUserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, responseMessage(t, rec))
			}
		})
	}
}

func TestAuth_StoreFailureIsNotReportedAsUnauthorized(t *testing.T) {
	h := newTestHandler(t, &service.Services{AuthService: &mockAuthService{
		authenticateFn: func(context.Context, string) (models.User, error) {
			return models.User{}, errors.New("connection reset")
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.auth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuth_LoggerCarriesActor(t *testing.T) {
	h := newTestHandler(t, &service.Services{AuthService: tokenAuth(map[string]models.User{"good": testAdmin})})

	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Info().Msg("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer good")
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	h.auth(next).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, testAdmin.ID, entry["user_id"])
	assert.Equal(t, string(models.RoleAdmin), entry["user_role"])
}

// ─────────────────────────────────────────────
// requireRoles
// ─────────────────────────────────────────────

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		user       *models.User
		wantStatus int
	}{
		{name: "admin passes", user: &testAdmin, wantStatus: http.StatusOK},
		{name: "employee is forbidden", user: &testEmployee, wantStatus: http.StatusForbidden},
		{name: "anonymous", user: nil, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &service.Services{})
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
			if tt.user != nil {
				req = withActor(req, *tt.user)
			}
			rec := httptest.NewRecorder()
			h.requireRoles(models.RoleAdmin)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
