package entity

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
)

type WithdrawalMethod string

const (
	WithdrawalMethodBTC  WithdrawalMethod = "btc"
	WithdrawalMethodBank WithdrawalMethod = "bank"
)

var ValidWithdrawalMethods = map[WithdrawalMethod]bool{
	WithdrawalMethodBTC:  true,
	WithdrawalMethodBank: true,
}

func IsValidWithdrawalMethod(m WithdrawalMethod) bool {
	_, ok := ValidWithdrawalMethods[m]
	return ok
}

// Profile represents the profiles table. Id is the seller identity.
type Profile struct {
	Id                  string         `db:"id"`
	WithdrawalMethod    sql.NullString `db:"withdrawal_method"`
	BtcWallet           sql.NullString `db:"btc_wallet"`
	Iban                sql.NullString `db:"iban"`
	WithdrawalFrequency sql.NullInt32  `db:"withdrawal_frequency"`
	LastWithdrawalDate  sql.NullTime   `db:"last_withdrawal_date"`
	CreatedAt           time.Time      `db:"created_at"`
}

// NextWithdrawal returns when the next payout is due. ok is false when payouts are not configured.
func (p *Profile) NextWithdrawal(now time.Time) (time.Time, bool) {
	if !p.WithdrawalMethod.Valid || !p.WithdrawalFrequency.Valid || p.WithdrawalFrequency.Int32 <= 0 {
		return time.Time{}, false
	}
	if !p.LastWithdrawalDate.Valid {
		return now, true
	}
	return p.LastWithdrawalDate.Time.AddDate(0, 0, int(p.WithdrawalFrequency.Int32)), true
}

// ProfileUpdate carries the payout settings a seller may change. Nil fields are left untouched.
type ProfileUpdate struct {
	WithdrawalMethod    *WithdrawalMethod `json:"withdrawalMethod,omitempty"`
	BtcWallet           *string           `json:"btcWallet,omitempty"`
	Iban                *string           `json:"iban,omitempty"`
	WithdrawalFrequency *int              `json:"withdrawalFrequency,omitempty"`
}

const MaxWithdrawalFrequency = 365

type payoutSettings struct {
	WithdrawalMethod string `valid:"in(btc|bank)"`
	BtcWallet        string `valid:"alphanum,stringlength(26|62)"`
	Iban             string `valid:"alphanum,stringlength(15|34)"`
}

// Normalize trims the destination fields and canonicalizes the IBAN to upper case without spaces.
func (u *ProfileUpdate) Normalize() {
	if u.BtcWallet != nil {
		w := strings.TrimSpace(*u.BtcWallet)
		u.BtcWallet = &w
	}
	if u.Iban != nil {
		iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(*u.Iban), " ", ""))
		u.Iban = &iban
	}
}

// ValidatePayoutSettings validates the settings that result from applying upd on top of current.
// current may be nil for a seller without a profile row.
func ValidatePayoutSettings(current *Profile, upd *ProfileUpdate) error {
	ps := payoutSettings{}
	freq := 0
	if current != nil {
		ps.WithdrawalMethod = current.WithdrawalMethod.String
		ps.BtcWallet = current.BtcWallet.String
		ps.Iban = current.Iban.String
		freq = int(current.WithdrawalFrequency.Int32)
	}
	if upd.WithdrawalMethod != nil {
		ps.WithdrawalMethod = string(*upd.WithdrawalMethod)
	}
	if upd.BtcWallet != nil {
		ps.BtcWallet = *upd.BtcWallet
	}
	if upd.Iban != nil {
		ps.Iban = *upd.Iban
	}
	if upd.WithdrawalFrequency != nil {
		freq = *upd.WithdrawalFrequency
		if freq < 1 || freq > MaxWithdrawalFrequency {
			return fmt.Errorf("withdrawal frequency must be between 1 and %d days", MaxWithdrawalFrequency)
		}
	}

	if _, err := govalidator.ValidateStruct(&ps); err != nil {
		return err
	}

	switch WithdrawalMethod(ps.WithdrawalMethod) {
	case WithdrawalMethodBTC:
		if ps.BtcWallet == "" {
			return fmt.Errorf("btc wallet is required for btc withdrawals")
		}
	case WithdrawalMethodBank:
		if ps.Iban == "" {
			return fmt.Errorf("iban is required for bank withdrawals")
		}
	}
	return nil
}

// Fields lists the attempted values by column name.
func (u *ProfileUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.WithdrawalMethod != nil {
		fields["withdrawal_method"] = string(*u.WithdrawalMethod)
	}
	if u.BtcWallet != nil {
		fields["btc_wallet"] = *u.BtcWallet
	}
	if u.Iban != nil {
		fields["iban"] = *u.Iban
	}
	if u.WithdrawalFrequency != nil {
		fields["withdrawal_frequency"] = *u.WithdrawalFrequency
	}
	return fields
}

// PayoutRequested is published when a seller's payout period has elapsed.
type PayoutRequested struct {
	SellerId       string           `json:"sellerId"`
	Method         WithdrawalMethod `json:"method"`
	Destination    string           `json:"destination"`
	PeriodStart    *time.Time       `json:"periodStart,omitempty"`
	PeriodEnd      time.Time        `json:"periodEnd"`
	SalesAmount    decimal.Decimal  `json:"salesAmount"`
	ReferralAmount decimal.Decimal  `json:"referralAmount"`
	Total          decimal.Decimal  `json:"total"`
}
