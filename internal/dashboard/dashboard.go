// Package dashboard serves the seller dashboard pages. Every entry point takes the caller's
// identity explicitly; it is resolved once per request by the transport.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jekabolt/privshop-seller/internal/analytics"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the referral program.
type Config struct {
	ReferralBaseURL string `mapstructure:"base_url"`
}

type Service struct {
	engine *analytics.Engine
	store  dependency.RecordStore
	c      *Config
}

// New creates a dashboard service on top of the analytics engine.
func New(engine *analytics.Engine, store dependency.RecordStore, c *Config) *Service {
	if c == nil {
		c = &Config{}
	}
	return &Service{
		engine: engine,
		store:  store,
		c:      c,
	}
}

// Stats builds the stats page: summary cards, the recent sales chart and the top products.
// The three computations run concurrently; a failed chart or ranking is logged, shown empty
// and listed in DegradedRelations.
func (s *Service) Stats(ctx context.Context, identity string) (*entity.Dashboard, error) {
	if identity == "" {
		return nil, gerr.ErrUnauthenticated
	}

	var (
		g         errgroup.Group
		summary   *entity.SummaryStats
		series    []entity.SalesPoint
		top       []entity.RankedProduct
		seriesErr error
		topErr    error
	)
	g.Go(func() error {
		var err error
		summary, err = s.engine.Summary(ctx, identity)
		return err
	})
	g.Go(func() error {
		series, seriesErr = s.engine.SalesSeries(ctx, identity)
		return nil
	})
	g.Go(func() error {
		top, topErr = s.engine.TopProducts(ctx, identity)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &entity.Dashboard{
		Summary:     *summary,
		Series:      series,
		TopProducts: top,
	}
	if seriesErr != nil {
		slog.Default().ErrorContext(ctx, "can't build sales series",
			slog.String("err", seriesErr.Error()),
		)
		d.Series = []entity.SalesPoint{}
		d.DegradedRelations = append(d.DegradedRelations, entity.RelationSalesSeries)
	}
	if topErr != nil {
		slog.Default().ErrorContext(ctx, "can't rank top products",
			slog.String("err", topErr.Error()),
		)
		d.TopProducts = []entity.RankedProduct{}
		d.DegradedRelations = append(d.DegradedRelations, entity.RelationTopProducts)
	}
	return d, nil
}

// Inventory lists the seller's products with rolled up stock and sales, filtered by title.
func (s *Service) Inventory(ctx context.Context, identity, search string) ([]entity.ProductRollup, error) {
	rollups, err := s.engine.InventoryRollup(ctx, identity)
	if err != nil {
		return nil, err
	}
	return analytics.FilterByTitle(rollups, search), nil
}

// Product returns one product of the seller. Products of other sellers are reported as not found.
func (s *Service) Product(ctx context.Context, identity, productId string) (*entity.ProductRollup, error) {
	if identity == "" {
		return nil, gerr.ErrUnauthenticated
	}
	rollup, err := s.engine.ProductRollup(ctx, productId)
	if err != nil {
		if errors.Is(err, gerr.ErrProductNotFound) {
			return nil, err
		}
		return nil, gerr.FetchFailed(entity.RelationProducts, err)
	}
	if rollup.Product.OwnerId != identity {
		return nil, gerr.ErrProductNotFound
	}
	return rollup, nil
}

// Referrals returns the referral ledger and the seller's share link.
func (s *Service) Referrals(ctx context.Context, identity string) (*entity.ReferralPage, error) {
	ledger, err := s.engine.ReferralLedger(ctx, identity)
	if err != nil {
		return nil, err
	}
	page := &entity.ReferralPage{Ledger: *ledger}
	if s.c.ReferralBaseURL != "" {
		link, err := analytics.ReferralLink(s.c.ReferralBaseURL, identity)
		if err != nil {
			return nil, fmt.Errorf("can't build referral link: %w", err)
		}
		page.Link = link
	}
	return page, nil
}

// PayoutSettings returns the seller's profile. A seller without a profile row gets an empty one.
func (s *Service) PayoutSettings(ctx context.Context, identity string) (*entity.Profile, error) {
	if identity == "" {
		return nil, gerr.ErrUnauthenticated
	}
	p, err := s.store.Profiles().GetProfile(ctx, identity)
	if err != nil {
		if errors.Is(err, gerr.ErrProfileNotFound) {
			return &entity.Profile{Id: identity}, nil
		}
		return nil, gerr.FetchFailed(entity.RelationProfiles, err)
	}
	return p, nil
}

// UpdatePayoutSettings validates and stores new payout settings. A failed write returns a
// WriteError carrying the attempted values.
func (s *Service) UpdatePayoutSettings(ctx context.Context, identity string, upd *entity.ProfileUpdate) (*entity.Profile, error) {
	if identity == "" {
		return nil, gerr.ErrUnauthenticated
	}
	if upd == nil {
		upd = &entity.ProfileUpdate{}
	}
	upd.Normalize()

	current, err := s.store.Profiles().GetProfile(ctx, identity)
	if err != nil && !errors.Is(err, gerr.ErrProfileNotFound) {
		return nil, gerr.FetchFailed(entity.RelationProfiles, err)
	}
	if err := entity.ValidatePayoutSettings(current, upd); err != nil {
		return nil, fmt.Errorf("%w: %v", gerr.ErrInvalidPayoutSettings, err)
	}

	p, err := s.store.Profiles().UpdateProfile(ctx, identity, upd)
	if errors.Is(err, gerr.ErrInvalidPayoutSettings) {
		return nil, err
	}
	if err != nil {
		slog.Default().ErrorContext(ctx, "can't update payout settings",
			slog.String("seller", identity),
			slog.String("err", err.Error()),
		)
		return nil, gerr.WriteFailed(upd.Fields(), err)
	}
	return p, nil
}
