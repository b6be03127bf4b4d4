package middleware

import (
	"net/http"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/logger"
)

// MaxRequestSize caps request bodies; oversized bodies fail inside the
// handler's decode with http.MaxBytesError, and requests that declare an
// oversized Content-Length are rejected up front.
func MaxRequestSize(maxBytes int, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > int64(maxBytes) {
				requestID := ""
				if rid := r.Context().Value(RequestIDKey); rid != nil {
					if id, ok := rid.(string); ok {
						requestID = id
					}
				}

				log.Warn("Request body too large",
					"request_id", requestID,
					"content_length", r.ContentLength,
					"max_bytes", maxBytes,
					"path", r.URL.Path,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"Request body too large"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
			next.ServeHTTP(w, r)
		})
	}
}
