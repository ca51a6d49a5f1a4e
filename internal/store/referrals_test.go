package store

import (
	"context"
	"testing"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralStore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	commissions := []string{"12.50", "7.25", "0"}
	for i, c := range commissions {
		_, err := db.Referrals().AddReferral(ctx, &entity.ReferralInsert{
			ReferrerId:       "seller-1",
			ReferredId:       "referred",
			CommissionEarned: decimal.RequireFromString(c),
			CreatedAt:        baseTime.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := db.Referrals().AddReferral(ctx, &entity.ReferralInsert{
		ReferrerId:       "seller-2",
		ReferredId:       "seller-1",
		CommissionEarned: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	refs, err := db.Referrals().GetReferralsByReferrer(ctx, "seller-1")
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.True(t, refs[0].CreatedAt.After(refs[1].CreatedAt))

	listed := decimal.Zero
	for _, r := range refs {
		listed = listed.Add(r.CommissionEarned)
	}

	total, err := db.Referrals().ReferralEarningsTotal(ctx, "seller-1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("19.75")), total.String())
	assert.True(t, listed.Equal(total))

	count, err := db.Referrals().ReferralCountTotal(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	since, err := db.Referrals().ReferralEarningsBetween(ctx, "seller-1", baseTime.Add(30*time.Minute), time.Time{})
	require.NoError(t, err)
	assert.True(t, since.Equal(decimal.RequireFromString("7.25")), since.String())

	until, err := db.Referrals().ReferralEarningsBetween(ctx, "seller-1", time.Time{}, baseTime.Add(30*time.Minute))
	require.NoError(t, err)
	assert.True(t, until.Equal(decimal.RequireFromString("12.50")), until.String())

	window, err := db.Referrals().ReferralEarningsBetween(ctx, "seller-1", baseTime, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, window.Equal(decimal.RequireFromString("7.25")), window.String())

	none, err := db.Referrals().ReferralEarningsTotal(ctx, "nobody")
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}

func TestReferralStore_RejectsNegativeCommission(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Referrals().AddReferral(context.Background(), &entity.ReferralInsert{
		ReferrerId:       "seller-1",
		ReferredId:       "x",
		CommissionEarned: decimal.NewFromInt(-1),
	})
	assert.Error(t, err)
}
