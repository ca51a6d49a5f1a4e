package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral represents the referrals table.
type Referral struct {
	Id string `db:"id"`
	ReferralInsert
}

type ReferralInsert struct {
	ReferrerId       string          `db:"referrer_id"`
	ReferredId       string          `db:"referred_id"`
	CommissionEarned decimal.Decimal `db:"commission_earned"`
	CreatedAt        time.Time       `db:"created_at"`
}
