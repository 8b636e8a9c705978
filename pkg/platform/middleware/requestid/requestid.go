// Package requestid tags every request with an identifier that flows through
// logs and is echoed back to the caller.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"donorcheck/pkg/requestcontext"
)

// Header carries the request ID in both directions.
const Header = "X-Request-ID"

const maxIncomingLength = 128

// Middleware reuses a caller-supplied X-Request-ID when it is reasonable,
// otherwise it generates a UUID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxIncomingLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
