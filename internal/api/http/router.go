package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	authjwt "github.com/jekabolt/privshop-seller/internal/auth/jwt"
	"github.com/jekabolt/privshop-seller/internal/middleware"
)

func (s *Server) setupHTTPAPI() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.ClientIdentifier)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.healthz)

	r.Route("/api/seller", func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.jwtAuth))
		r.Use(middleware.RateLimit(s.limiter, sellerKey, func(w http.ResponseWriter, r *http.Request) {
			render.Render(w, r, ErrTooManyRequests)
		}))

		r.Get("/stats", s.stats)
		r.Get("/inventory", s.inventory)
		r.Get("/inventory/{productId}", s.product)
		r.Get("/referrals", s.referrals)
		r.Get("/payout", s.payoutSettings)
		r.Put("/payout", s.updatePayoutSettings)
	})

	return r
}

func sellerKey(ctx context.Context) string {
	id, err := authjwt.CurrentIdentity(ctx)
	if err != nil {
		return ""
	}
	return id
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Default().InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", middleware.GetClientIP(r.Context())),
			slog.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}

	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || origin == allowedOrigin {
			return true
		}
	}

	return false
}
