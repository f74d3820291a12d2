package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/association-hub/backend/internal/observability"
)

// RequestMeta copies the request id, client address and user agent into the
// context for logging and the audit trail. It must run after chi's RequestID
// and RealIP middlewares.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		ctx := observability.WithRequestMeta(r.Context(), observability.RequestMeta{
			RequestID: requestID,
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
