package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/skillora/internal/api/response"
)

const maxRequestIDLen = 128

// RequestID assigns every request an id, reusing a sane inbound
// X-Request-ID, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(response.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(response.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(setRequestID(r.Context(), id)))
	})
}
