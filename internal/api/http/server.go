// Package httpapi serves the seller dashboard JSON API and the gRPC health service on one
// h2c listener.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the http server
type Server struct {
	hs      *http.Server
	gs      *grpc.Server
	health  *health.Server
	c       *Config
	svc     dependency.Dashboard
	db      Pinger
	jwtAuth *jwtauth.JWTAuth
	limiter dependency.RateLimiter
	done    chan struct{}
}

// New creates a new server
func New(c *Config, svc dependency.Dashboard, db Pinger, jwtAuth *jwtauth.JWTAuth, limiter dependency.RateLimiter) *Server {
	return &Server{
		c:       c,
		svc:     svc,
		db:      db,
		jwtAuth: jwtAuth,
		limiter: limiter,
		health:  health.NewServer(),
		done:    make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler returns the combined gRPC and JSON API handler.
func (s *Server) Handler() http.Handler {
	opts := []logging.Option{
		logging.WithLogOnEvents(logging.StartCall, logging.FinishCall),
	}

	s.gs = grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(log.InterceptorLogger(slog.Default()), opts...),
			recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamServerInterceptor(log.InterceptorLogger(slog.Default()), opts...),
			recovery.StreamServerInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(s.gs, s.health)

	api := s.setupHTTPAPI()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ProtoMajor == 2 && strings.Contains(r.Header.Get("Content-Type"), "application/grpc") {
			s.gs.ServeHTTP(w, r)
			return
		}
		api.ServeHTTP(w, r)
	})
	return h2c.NewHandler(handler, &http2.Server{})
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	if s.hs != nil {
		return fmt.Errorf("http server already started")
	}

	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:    listenerAddr,
		Handler: s.Handler(),
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		slog.Default().InfoContext(ctx, "privshop-seller new listener",
			slog.String("addr", "http://"+listenerAddr),
		)
		err := s.hs.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

// Stop marks the service not serving and drains in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	s.health.Shutdown()
	s.gs.GracefulStop()
	return s.hs.Shutdown(ctx)
}
