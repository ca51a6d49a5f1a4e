package store

import (
	"context"
	"testing"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStore_UpdateProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Profiles().GetProfile(ctx, "seller-1")
	assert.ErrorIs(t, err, gerr.ErrProfileNotFound)

	method := entity.WithdrawalMethodBank
	iban := "DE89370400440532013000"
	p, err := db.Profiles().UpdateProfile(ctx, "seller-1", &entity.ProfileUpdate{
		WithdrawalMethod: &method,
		Iban:             &iban,
	})
	require.NoError(t, err)
	assert.Equal(t, "bank", p.WithdrawalMethod.String)
	assert.Equal(t, iban, p.Iban.String)
	assert.False(t, p.BtcWallet.Valid)

	freq := 7
	p, err = db.Profiles().UpdateProfile(ctx, "seller-1", &entity.ProfileUpdate{WithdrawalFrequency: &freq})
	require.NoError(t, err)
	assert.Equal(t, int32(7), p.WithdrawalFrequency.Int32)
	assert.Equal(t, iban, p.Iban.String)
}

func TestProfileStore_GetProfilesDueForPayout(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := baseTime

	method := entity.WithdrawalMethodBTC
	wallet := "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"
	freq := 7

	for _, id := range []string{"never-paid", "paid-recently", "paid-long-ago"} {
		_, err := db.Profiles().UpdateProfile(ctx, id, &entity.ProfileUpdate{
			WithdrawalMethod:    &method,
			BtcWallet:           &wallet,
			WithdrawalFrequency: &freq,
		})
		require.NoError(t, err)
	}
	_, err := db.Profiles().UpdateProfile(ctx, "not-configured", &entity.ProfileUpdate{BtcWallet: &wallet})
	require.NoError(t, err)

	require.NoError(t, db.Profiles().MarkWithdrawal(ctx, "paid-recently", now.Add(-2*24*time.Hour)))
	require.NoError(t, db.Profiles().MarkWithdrawal(ctx, "paid-long-ago", now.Add(-8*24*time.Hour)))

	due, err := db.Profiles().GetProfilesDueForPayout(ctx, now)
	require.NoError(t, err)
	ids := []string{}
	for _, p := range due {
		ids = append(ids, p.Id)
	}
	assert.ElementsMatch(t, []string{"never-paid", "paid-long-ago"}, ids)
}

func TestProfileStore_UpdateProfileValidatesStoredRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bank := entity.WithdrawalMethodBank
	iban := "DE89370400440532013000"
	_, err := db.Profiles().UpdateProfile(ctx, "seller-1", &entity.ProfileUpdate{WithdrawalMethod: &bank, Iban: &iban})
	require.NoError(t, err)

	// switching to btc is only valid if a wallet is stored or sent along
	btc := entity.WithdrawalMethodBTC
	_, err = db.Profiles().UpdateProfile(ctx, "seller-1", &entity.ProfileUpdate{WithdrawalMethod: &btc})
	assert.ErrorIs(t, err, gerr.ErrInvalidPayoutSettings)

	p, err := db.Profiles().GetProfile(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, "bank", p.WithdrawalMethod.String)

	wallet := "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"
	_, err = db.Profiles().UpdateProfile(ctx, "seller-1", &entity.ProfileUpdate{BtcWallet: &wallet})
	require.NoError(t, err)
	p, err = db.Profiles().UpdateProfile(ctx, "seller-1", &entity.ProfileUpdate{WithdrawalMethod: &btc})
	require.NoError(t, err)
	assert.Equal(t, "btc", p.WithdrawalMethod.String)

	_, err = db.Profiles().UpdateProfile(ctx, "seller-2", &entity.ProfileUpdate{WithdrawalMethod: &btc})
	assert.ErrorIs(t, err, gerr.ErrInvalidPayoutSettings)
	_, err = db.Profiles().GetProfile(ctx, "seller-2")
	assert.ErrorIs(t, err, gerr.ErrProfileNotFound)
}

func TestSQLStore_IsErrUniqueViolation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO profiles (id, created_at) VALUES (:id, :createdAt)`
	params := map[string]any{"id": "seller-1", "createdAt": baseTime}
	require.NoError(t, ExecNamed(ctx, db.DB(), insert, params))

	err := ExecNamed(ctx, db.DB(), insert, params)
	require.Error(t, err)
	assert.True(t, db.IsErrUniqueViolation(err))
	assert.False(t, db.IsErrUniqueViolation(gerr.ErrProfileNotFound))
}
