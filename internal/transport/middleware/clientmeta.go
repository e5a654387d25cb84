package middleware

import (
	"net"
	"net/http"

	"github.com/frahmantamala/support-desk/internal"
)

// ClientMeta stores the caller address and user agent in the context so
// sessions, attempts and activity rows can record them. Mount it after
// chi's RealIP so proxy headers are already folded into RemoteAddr.
func ClientMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := internal.ContextWithRequestMeta(r.Context(), clientIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
