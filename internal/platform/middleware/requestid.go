package middleware

import (
	"net/http"

	"github.com/sitesage/sitesage/backend/internal/platform/requestid"
)

// RequestID assigns a correlation ID to each request. An incoming
// X-Request-ID header is trusted and reused, otherwise a new ID is
// generated. The ID is stored on the request context and echoed back
// on the response so clients can reference it in support requests.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = requestid.New()
		}
		w.Header().Set(requestid.Header, id)

		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
