package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type (
	Products interface {
		// AddProduct adds a new product along with its variants.
		AddProduct(ctx context.Context, prd *entity.ProductNew) (string, error)
		// GetProductById returns a product by its ID.
		GetProductById(ctx context.Context, id string) (*entity.Product, error)
		// GetProductsByOwner returns the seller's products in creation order.
		GetProductsByOwner(ctx context.Context, ownerId string) ([]entity.Product, error)
		// CountProductsByOwner returns how many products the seller owns.
		CountProductsByOwner(ctx context.Context, ownerId string) (int, error)
		// GetViewsByOwner returns the views column of every product the seller owns.
		GetViewsByOwner(ctx context.Context, ownerId string) ([]sql.NullInt32, error)
	}

	Variants interface {
		GetVariantsByProductId(ctx context.Context, productId string) ([]entity.ProductVariant, error)
		GetVariantsByProductIds(ctx context.Context, productIds []string) ([]entity.ProductVariant, error)
	}

	Sales interface {
		AddSale(ctx context.Context, s *entity.SaleInsert) (string, error)
		GetSales(ctx context.Context, f entity.SalesFilter) ([]entity.Sale, error)
		// SumSalesAmount sums sale amounts matching the filter, ignoring Limit.
		SumSalesAmount(ctx context.Context, f entity.SalesFilter) (decimal.Decimal, error)
	}

	Profiles interface {
		GetProfile(ctx context.Context, id string) (*entity.Profile, error)
		// UpdateProfile validates upd against the stored row inside its write transaction.
		UpdateProfile(ctx context.Context, id string, upd *entity.ProfileUpdate) (*entity.Profile, error)
		GetProfilesDueForPayout(ctx context.Context, now time.Time) ([]entity.Profile, error)
		MarkWithdrawal(ctx context.Context, id string, at time.Time) error
	}

	Referrals interface {
		AddReferral(ctx context.Context, r *entity.ReferralInsert) (string, error)
		GetReferralsByReferrer(ctx context.Context, referrerId string) ([]entity.Referral, error)
		// ReferralEarningsTotal is the server-side sum of commission_earned for the referrer.
		ReferralEarningsTotal(ctx context.Context, referrerId string) (decimal.Decimal, error)
		// ReferralCountTotal is the server-side count of referrals for the referrer.
		ReferralCountTotal(ctx context.Context, referrerId string) (int, error)
		// ReferralEarningsBetween sums commissions created in (since, until]; a zero bound is open.
		ReferralEarningsBetween(ctx context.Context, referrerId string, since, until time.Time) (decimal.Decimal, error)
	}

	// RecordStore is the read surface the analytics engines depend on.
	RecordStore interface {
		Products() Products
		Variants() Variants
		Sales() Sales
		Profiles() Profiles
		Referrals() Referrals
	}

	Repository interface {
		RecordStore
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		Close()
		Ping(ctx context.Context) error
		IsErrUniqueViolation(err error) bool
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		DriverName() string
		Rebind(query string) string
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// PayoutPublisher delivers payout requests to the payments pipeline.
	PayoutPublisher interface {
		PublishPayout(ctx context.Context, p *entity.PayoutRequested) error
		Close() error
	}

	// Dashboard serves the seller dashboard pages for an explicit seller identity.
	Dashboard interface {
		Stats(ctx context.Context, identity string) (*entity.Dashboard, error)
		Inventory(ctx context.Context, identity, search string) ([]entity.ProductRollup, error)
		Product(ctx context.Context, identity, productId string) (*entity.ProductRollup, error)
		Referrals(ctx context.Context, identity string) (*entity.ReferralPage, error)
		PayoutSettings(ctx context.Context, identity string) (*entity.Profile, error)
		UpdatePayoutSettings(ctx context.Context, identity string, upd *entity.ProfileUpdate) (*entity.Profile, error)
	}

	// RateLimiter decides whether key may perform one more request.
	RateLimiter interface {
		Allow(ctx context.Context, key string) (bool, error)
	}
)
