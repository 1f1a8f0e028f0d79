package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

// compressLevel is the gzip/deflate level of API responses.
const compressLevel = 5

var gzipReaderPool = sync.Pool{
	New: func() any { return new(gzip.Reader) },
}

// withCompression encodes JSON and text responses for clients that accept
// gzip or deflate.
func withCompression() func(http.Handler) http.Handler {
	return middleware.Compress(compressLevel, "application/json", "text/plain")
}

// withGUnzip transparently decodes request bodies sent with
// "Content-Encoding: gzip".
func withGUnzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		zr := gzipReaderPool.Get().(*gzip.Reader)
		if err := zr.Reset(r.Body); err != nil {
			gzipReaderPool.Put(zr)
			utils.WriteError(w, "Invalid gzip data", http.StatusBadRequest)
			return
		}

		r.Body = &pooledGzipBody{Reader: zr, source: r.Body}
		r.Header.Del("Content-Encoding")
		r.ContentLength = -1

		next.ServeHTTP(w, r)
	})
}

// pooledGzipBody returns its reader to the pool on Close.
type pooledGzipBody struct {
	*gzip.Reader
	source io.ReadCloser
	closed bool
}

func (b *pooledGzipBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	err := b.Reader.Close()
	gzipReaderPool.Put(b.Reader)
	if sourceErr := b.source.Close(); err == nil {
		err = sourceErr
	}
	return err
}
