// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// echoHandler answers with the (decoded) request body as JSON.
var echoHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
})

func TestCompression(t *testing.T) {
	payload := []byte(`{"title":"Prepare report"}`)

	tests := []struct {
		name           string
		acceptEncoding string
		gzipRequest    bool
		wantGzipped    bool
	}{
		{name: "plain in, plain out"},
		{name: "plain in, gzip out", acceptEncoding: "gzip", wantGzipped: true},
		{name: "gzip in among several encodings", acceptEncoding: "deflate, gzip;q=1.0, br", gzipRequest: true, wantGzipped: true},
		{name: "gzip in, plain out", gzipRequest: true},
	}

	handler := withCompression()(withGUnzip(echoHandler))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := payload
			if tt.gzipRequest {
				body = gzipBytes(t, body)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewReader(body))
			if tt.gzipRequest {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			got := rec.Body.Bytes()
			if tt.wantGzipped {
				assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
				assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
				zr, err := gzip.NewReader(bytes.NewReader(got))
				require.NoError(t, err)
				got, err = io.ReadAll(zr)
				require.NoError(t, err)
			} else {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
			}
			assert.Equal(t, string(payload), string(got))
		})
	}
}

func TestGUnzip_InvalidRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader("definitely not gzip"))
	req.Header.Set("Content-Encoding", "gzip")

	rec := httptest.NewRecorder()
	withGUnzip(echoHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid gzip data", responseMessage(t, rec))
}

func TestGUnzip_PoolReuse(t *testing.T) {
	handler := withGUnzip(echoHandler)

	for i := range 5 {
		data := []byte(strings.Repeat("task ", i+1))
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipBytes(t, data)))
		req.Header.Set("Content-Encoding", "gzip")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, string(data), rec.Body.String(), "request %d: wrong body", i)
	}
}

func TestPooledGzipBody_CloseTwice(t *testing.T) {
	zr, err := gzip.NewReader(bytes.NewReader(gzipBytes(t, []byte("x"))))
	require.NoError(t, err)

	body := &pooledGzipBody{Reader: zr, source: io.NopCloser(strings.NewReader(""))}
	assert.NoError(t, body.Close())
	assert.NoError(t, body.Close())
}
