// Package payout requests seller payouts once their withdrawal period has elapsed.
package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/jekabolt/privshop-seller/internal/dependency"
)

// Config holds configuration for the payout worker.
type Config struct {
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
	Brokers        []string      `mapstructure:"brokers"`
	Topic          string        `mapstructure:"topic"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		WorkerInterval: time.Hour,
		Topic:          "seller.payouts",
	}
}

// Worker publishes a payout request for every seller whose withdrawal period has elapsed
// and records the withdrawal date.
type Worker struct {
	store     dependency.RecordStore
	publisher dependency.PayoutPublisher
	c         *Config
	now       func() time.Time
	ctx       context.Context
	stop      context.CancelFunc
}

// New creates a new payout worker.
func New(c *Config, store dependency.RecordStore, publisher dependency.PayoutPublisher) *Worker {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.WorkerInterval == 0 {
		c.WorkerInterval = time.Hour
	}
	if c.Topic == "" {
		c.Topic = "seller.payouts"
	}
	return &Worker{
		store:     store,
		publisher: publisher,
		c:         c,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Start starts the worker.
func (w *Worker) Start(ctx context.Context) error {
	if w.ctx != nil && w.stop != nil {
		return fmt.Errorf("payout worker already started")
	}
	w.ctx, w.stop = context.WithCancel(ctx)
	go w.worker(w.ctx)
	return nil
}

// Stop stops the worker gracefully.
func (w *Worker) Stop() error {
	if w.stop == nil {
		return fmt.Errorf("payout worker already stopped or not started")
	}
	w.stop()
	w.stop = nil
	return nil
}
