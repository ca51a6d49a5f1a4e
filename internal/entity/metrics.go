package entity

import (
	"github.com/shopspring/decimal"
)

// Relation names used to annotate partial results.
const (
	RelationProducts       = "products"
	RelationVariants       = "product_variants"
	RelationSales          = "sales"
	RelationProfiles       = "profiles"
	RelationReferrals      = "referrals"
	RelationReferralTotals = "referral_totals"
	RelationReferralCount  = "referral_count"
	RelationProductCount   = "product_count"
	RelationProductViews   = "product_views"

	// dashboard sections computed from several relations
	RelationSalesSeries = "sales_series"
	RelationTopProducts = "top_products"
)

// ProductRollup is one inventory row: a product with its stock and sales rolled up.
type ProductRollup struct {
	Product         Product
	Variants        []ProductVariant
	TotalStock      int
	TotalSales      int
	FailedRelations []string
}

// Failed reports whether any relation backing this row could not be fetched.
func (pr *ProductRollup) Failed() bool {
	return len(pr.FailedRelations) > 0
}

type RankedProduct struct {
	ProductId  string
	Title      string
	SalesCount int
}

type SalesPoint struct {
	Date   string
	Amount decimal.Decimal
}

// SummaryStats backs the general summary cards.
type SummaryStats struct {
	TotalSales        decimal.Decimal
	SalesCount        int
	ActiveProducts    int
	TotalViews        int
	ConversionRate    decimal.Decimal // sale count / views * 100
	DegradedRelations []string
}

type ReferralLedger struct {
	TotalReferrals    int
	TotalEarnings     decimal.Decimal
	Referrals         []Referral
	DegradedRelations []string
}

// ReferralPage is the ledger plus the seller's share link.
type ReferralPage struct {
	Ledger ReferralLedger
	Link   string
}

// Dashboard is the stats page payload.
type Dashboard struct {
	Summary     SummaryStats
	Series      []SalesPoint
	TopProducts []RankedProduct
	// DegradedRelations names the sections shown empty because they could not be computed.
	DegradedRelations []string
}
