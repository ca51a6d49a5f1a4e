package analytics

import (
	"context"
	"net/url"
	"sync"

	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/shopspring/decimal"
)

// ReferralLedger reads the seller's referral count, commission total and referral list.
// The totals come from the store's aggregates and are not reconciled against the list.
// Without a seller identity nothing is fetched.
func (e *Engine) ReferralLedger(ctx context.Context, sellerId string) (*entity.ReferralLedger, error) {
	if sellerId == "" {
		return nil, gerr.ErrUnauthenticated
	}

	var (
		wg        sync.WaitGroup
		count     int
		earnings  decimal.Decimal
		referrals []entity.Referral
		countErr  error
		earnErr   error
		listErr   error
	)
	wg.Go(func() {
		count, countErr = e.store.Referrals().ReferralCountTotal(ctx, sellerId)
	})
	wg.Go(func() {
		earnings, earnErr = e.store.Referrals().ReferralEarningsTotal(ctx, sellerId)
	})
	wg.Go(func() {
		referrals, listErr = e.store.Referrals().GetReferralsByReferrer(ctx, sellerId)
	})
	wg.Wait()

	ledger := &entity.ReferralLedger{
		TotalReferrals: count,
		TotalEarnings:  earnings,
		Referrals:      referrals,
	}
	if countErr != nil {
		logFetchFailed(ctx, entity.RelationReferralCount, countErr)
		ledger.DegradedRelations = append(ledger.DegradedRelations, entity.RelationReferralCount)
		ledger.TotalReferrals = 0
	}
	if earnErr != nil {
		logFetchFailed(ctx, entity.RelationReferralTotals, earnErr)
		ledger.DegradedRelations = append(ledger.DegradedRelations, entity.RelationReferralTotals)
		ledger.TotalEarnings = decimal.Zero
	}
	if listErr != nil || ledger.Referrals == nil {
		if listErr != nil {
			logFetchFailed(ctx, entity.RelationReferrals, listErr)
			ledger.DegradedRelations = append(ledger.DegradedRelations, entity.RelationReferrals)
		}
		ledger.Referrals = []entity.Referral{}
	}
	return ledger, nil
}

// ReferralLink builds the share link a seller hands out: baseURL with ref=sellerId.
func ReferralLink(baseURL, sellerId string) (string, error) {
	if sellerId == "" {
		return "", gerr.ErrUnauthenticated
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("ref", sellerId)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
