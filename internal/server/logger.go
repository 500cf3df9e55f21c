package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RequestLogger is a middleware to log HTTP requests.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		event := log.Info()
		if ww.statusCode >= http.StatusInternalServerError {
			event = log.Error()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Int("bytes", ww.written).
			Str("ip", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	written    int
}

// WriteHeader captures the status code before writing to the underlying response writer.
func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Write counts the body bytes sent to the client.
func (w *responseWriterWrapper) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}
