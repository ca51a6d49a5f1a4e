package middleware

import (
	"context"
	"net"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const ClientIPKey contextKey = "client_ip"

// ClientIdentifier resolves the client IP behind proxies and stores it in the request context.
func ClientIdentifier(next http.Handler) http.Handler {
	return chimiddleware.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ClientIPKey, remoteHost(r.RemoteAddr))
		next.ServeHTTP(w, r.WithContext(ctx))
	}))
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// GetClientIP retrieves the client IP from context
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return "unknown"
}
