package api

import (
	"log"
	"net/http"
	"time"
)

// statusWriter captures the response status code for request logging.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs method, path, status and latency for every request.
// Bodies and Authorization headers are never logged.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sw, r)

		log.Printf("[http] method=%s path=%s status=%d duration=%s",
			r.Method, r.URL.Path, sw.statusCode, time.Since(start))
	})
}
