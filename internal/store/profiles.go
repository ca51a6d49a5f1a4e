package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
)

type profileStore struct {
	*SQLStore
}

// Profiles returns an object implementing profiles interface
func (ms *SQLStore) Profiles() dependency.Profiles {
	return &profileStore{
		SQLStore: ms,
	}
}

const profileColumns = `id, withdrawal_method, btc_wallet, iban, withdrawal_frequency, last_withdrawal_date, created_at`

func getProfile(ctx context.Context, rep dependency.Repository, id string) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = :id`
	p, err := QueryNamedOne[entity.Profile](ctx, rep.DB(), query, map[string]any{
		"id": id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrProfileNotFound
		}
		return nil, fmt.Errorf("can't get profile: %w", err)
	}
	return &p, nil
}

func (ms *profileStore) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	return getProfile(ctx, ms, id)
}

// UpdateProfile validates upd against the stored settings and writes its non-nil fields,
// creating the profile row on first use. Validation reads the row inside the write transaction.
func (ms *profileStore) UpdateProfile(ctx context.Context, id string, upd *entity.ProfileUpdate) (*entity.Profile, error) {
	sets := []string{}
	params := map[string]any{"id": id}
	if upd.WithdrawalMethod != nil {
		sets = append(sets, "withdrawal_method = :withdrawalMethod")
		params["withdrawalMethod"] = string(*upd.WithdrawalMethod)
	}
	if upd.BtcWallet != nil {
		sets = append(sets, "btc_wallet = :btcWallet")
		params["btcWallet"] = nullString(*upd.BtcWallet)
	}
	if upd.Iban != nil {
		sets = append(sets, "iban = :iban")
		params["iban"] = nullString(*upd.Iban)
	}
	if upd.WithdrawalFrequency != nil {
		sets = append(sets, "withdrawal_frequency = :withdrawalFrequency")
		params["withdrawalFrequency"] = *upd.WithdrawalFrequency
	}

	var updated *entity.Profile
	write := func(ctx context.Context, rep dependency.Repository) error {
		current, err := getProfile(ctx, rep, id)
		if err != nil && !errors.Is(err, gerr.ErrProfileNotFound) {
			return err
		}
		if verr := entity.ValidatePayoutSettings(current, upd); verr != nil {
			return fmt.Errorf("%w: %v", gerr.ErrInvalidPayoutSettings, verr)
		}
		if current == nil {
			err = ExecNamed(ctx, rep.DB(), `INSERT INTO profiles (id, created_at) VALUES (:id, :createdAt)`, map[string]any{
				"id":        id,
				"createdAt": rep.Now(),
			})
			if err != nil {
				return fmt.Errorf("can't create profile: %w", err)
			}
		}

		if len(sets) > 0 {
			query := `UPDATE profiles SET ` + strings.Join(sets, ", ") + ` WHERE id = :id`
			if err := ExecNamed(ctx, rep.DB(), query, params); err != nil {
				return fmt.Errorf("can't update profile: %w", err)
			}
		}

		updated, err = getProfile(ctx, rep, id)
		return err
	}

	err := ms.Tx(ctx, write)
	if err != nil && ms.IsErrUniqueViolation(err) {
		// a concurrent first write created the row; the retry takes the update path
		err = ms.Tx(ctx, write)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetProfilesDueForPayout returns profiles with payouts configured whose period has elapsed at now.
func (ms *profileStore) GetProfilesDueForPayout(ctx context.Context, now time.Time) ([]entity.Profile, error) {
	query := `
	SELECT ` + profileColumns + ` FROM profiles
	WHERE withdrawal_method IS NOT NULL AND withdrawal_frequency IS NOT NULL AND withdrawal_frequency > 0
	ORDER BY id ASC`
	profiles, err := QueryListNamed[entity.Profile](ctx, ms.db, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("can't get payout profiles: %w", err)
	}

	due := make([]entity.Profile, 0, len(profiles))
	for _, p := range profiles {
		next, ok := p.NextWithdrawal(now)
		if ok && !next.After(now) {
			due = append(due, p)
		}
	}
	return due, nil
}

func (ms *profileStore) MarkWithdrawal(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE profiles SET last_withdrawal_date = :at WHERE id = :id`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id": id,
		"at": at,
	})
	if err != nil {
		return fmt.Errorf("can't mark withdrawal: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
