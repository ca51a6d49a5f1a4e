package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jekabolt/privshop-seller/config"
	"github.com/jekabolt/privshop-seller/internal/analytics"
	httpapi "github.com/jekabolt/privshop-seller/internal/api/http"
	authjwt "github.com/jekabolt/privshop-seller/internal/auth/jwt"
	"github.com/jekabolt/privshop-seller/internal/dashboard"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/payout"
	"github.com/jekabolt/privshop-seller/internal/ratelimit"
	"github.com/jekabolt/privshop-seller/internal/store"
)

// App is the main application
type App struct {
	hs           *httpapi.Server
	db           dependency.Repository
	payout       *payout.Worker
	publisher    dependency.PayoutPublisher
	closeLimiter func() error
	c            *config.Config
	done         chan struct{}
	doneOnce     sync.Once
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting privshop seller dashboard")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to database",
			slog.String("err", err.Error()),
		)
		return err
	}

	jwtAuth, err := authjwt.New(&a.c.Auth)
	if err != nil {
		return fmt.Errorf("can't configure auth: %w", err)
	}

	limiter, closeLimiter, err := ratelimit.New(ctx, &a.c.RateLimit)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't create rate limiter",
			slog.String("err", err.Error()),
		)
		return err
	}
	a.closeLimiter = closeLimiter

	engine := analytics.New(a.db, &a.c.Analytics)
	svc := dashboard.New(engine, a.db, &a.c.Referral)

	if len(a.c.Payout.Brokers) > 0 {
		a.publisher = payout.NewKafkaPublisher(a.c.Payout.Brokers, a.c.Payout.Topic)
	} else {
		slog.Default().WarnContext(ctx, "no payout brokers configured, payout requests are only logged")
		a.publisher = payout.LogPublisher{}
	}
	a.payout = payout.New(&a.c.Payout, a.db, a.publisher)
	if err := a.payout.Start(ctx); err != nil {
		return fmt.Errorf("can't start payout worker: %w", err)
	}

	// start API server
	a.hs = httpapi.New(&a.c.HTTP, svc, a.db, jwtAuth, limiter)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server",
			slog.String("err", err.Error()),
		)
		return err
	}

	go func() {
		<-a.hs.Done()
		a.doneOnce.Do(func() { close(a.done) })
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	var errs []error
	if a.hs != nil {
		errs = append(errs, a.hs.Stop(ctx))
	}
	if a.payout != nil {
		errs = append(errs, a.payout.Stop())
	}
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.closeLimiter != nil {
		errs = append(errs, a.closeLimiter())
	}
	if a.db != nil {
		a.db.Close()
	}
	if err := errors.Join(errs...); err != nil {
		slog.Default().ErrorContext(ctx, "errors while stopping",
			slog.String("err", err.Error()),
		)
	}
	a.doneOnce.Do(func() { close(a.done) })
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
