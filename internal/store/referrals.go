package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/shopspring/decimal"
)

type referralStore struct {
	*SQLStore
}

// Referrals returns an object implementing referrals interface
func (ms *SQLStore) Referrals() dependency.Referrals {
	return &referralStore{
		SQLStore: ms,
	}
}

func (ms *referralStore) AddReferral(ctx context.Context, r *entity.ReferralInsert) (string, error) {
	if r.CommissionEarned.IsNegative() {
		return "", fmt.Errorf("commission can't be negative")
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = ms.Now()
	}
	id := uuid.NewString()
	query := `
	INSERT INTO referrals (id, referrer_id, referred_id, commission_earned, created_at)
	VALUES (:id, :referrerId, :referredId, :commissionEarned, :createdAt)`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id":               id,
		"referrerId":       r.ReferrerId,
		"referredId":       r.ReferredId,
		"commissionEarned": r.CommissionEarned,
		"createdAt":        createdAt,
	})
	if err != nil {
		return "", fmt.Errorf("can't add referral: %w", err)
	}
	return id, nil
}

// GetReferralsByReferrer lists the referrer's referrals, newest first.
func (ms *referralStore) GetReferralsByReferrer(ctx context.Context, referrerId string) ([]entity.Referral, error) {
	query := `
	SELECT id, referrer_id, referred_id, commission_earned, created_at
	FROM referrals WHERE referrer_id = :referrerId
	ORDER BY created_at DESC, id ASC`
	refs, err := QueryListNamed[entity.Referral](ctx, ms.db, query, map[string]any{
		"referrerId": referrerId,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get referrals: %w", err)
	}
	return refs, nil
}

func (ms *referralStore) ReferralEarningsTotal(ctx context.Context, referrerId string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(commission_earned), 0) FROM referrals WHERE referrer_id = :referrerId`
	total, err := QueryScalarNamed[decimal.Decimal](ctx, ms.db, query, map[string]any{
		"referrerId": referrerId,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't get referral earnings total: %w", err)
	}
	return total, nil
}

func (ms *referralStore) ReferralCountTotal(ctx context.Context, referrerId string) (int, error) {
	query := `SELECT COUNT(*) FROM referrals WHERE referrer_id = :referrerId`
	count, err := QueryScalarNamed[int](ctx, ms.db, query, map[string]any{
		"referrerId": referrerId,
	})
	if err != nil {
		return 0, fmt.Errorf("can't get referral count total: %w", err)
	}
	return count, nil
}

// ReferralEarningsBetween sums commissions created in (since, until]. A zero bound is open.
func (ms *referralStore) ReferralEarningsBetween(ctx context.Context, referrerId string, since, until time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(commission_earned), 0) FROM referrals WHERE referrer_id = :referrerId`
	params := map[string]any{"referrerId": referrerId}
	if !since.IsZero() {
		query += ` AND created_at > :since`
		params["since"] = since
	}
	if !until.IsZero() {
		query += ` AND created_at <= :until`
		params["until"] = until
	}
	total, err := QueryScalarNamed[decimal.Decimal](ctx, ms.db, query, params)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't get referral earnings between: %w", err)
	}
	return total, nil
}
