package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/shopspring/decimal"
)

// errors

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string         `json:"status"`             // user-level status message
	ErrorText  string         `json:"error,omitempty"`    // application-level error message, for debugging
	Relation   string         `json:"relation,omitempty"` // relation that could not be read
	Fields     map[string]any `json:"fields,omitempty"`   // values of a write that did not persist
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrFromError maps err to a response, deriving the HTTP status from its gRPC code.
func ErrFromError(err error) render.Renderer {
	code := gerr.Code(err)
	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: runtime.HTTPStatusFromCode(code),
		StatusText:     code.String(),
		ErrorText:      err.Error(),
	}
	if relation, ok := gerr.IsFetchFailed(err); ok {
		resp.Relation = relation
	}
	var we *gerr.WriteError
	if errors.As(err, &we) {
		resp.Fields = we.Fields
	}
	return resp
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

var ErrTooManyRequests = &ErrResponse{HTTPStatusCode: http.StatusTooManyRequests, StatusText: "Too many requests."}

// stats

type SummaryResponse struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	SalesCount        int             `json:"salesCount"`
	ActiveProducts    int             `json:"activeProducts"`
	TotalViews        int             `json:"totalViews"`
	ConversionRate    decimal.Decimal `json:"conversionRate"`
	DegradedRelations []string        `json:"degradedRelations,omitempty"`
}

type SalesPointResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type RankedProductResponse struct {
	ProductId  string `json:"productId"`
	Title      string `json:"title"`
	SalesCount int    `json:"salesCount"`
}

type DashboardResponse struct {
	Summary           SummaryResponse         `json:"summary"`
	Series            []SalesPointResponse    `json:"series"`
	TopProducts       []RankedProductResponse `json:"topProducts"`
	DegradedRelations []string                `json:"degradedRelations,omitempty"`
}

func NewDashboardResponse(d *entity.Dashboard) *DashboardResponse {
	resp := &DashboardResponse{
		Summary: SummaryResponse{
			TotalSales:        d.Summary.TotalSales,
			SalesCount:        d.Summary.SalesCount,
			ActiveProducts:    d.Summary.ActiveProducts,
			TotalViews:        d.Summary.TotalViews,
			ConversionRate:    d.Summary.ConversionRate.Round(2),
			DegradedRelations: d.Summary.DegradedRelations,
		},
		Series:            make([]SalesPointResponse, 0, len(d.Series)),
		TopProducts:       make([]RankedProductResponse, 0, len(d.TopProducts)),
		DegradedRelations: d.DegradedRelations,
	}
	for _, p := range d.Series {
		resp.Series = append(resp.Series, SalesPointResponse{Date: p.Date, Amount: p.Amount})
	}
	for _, p := range d.TopProducts {
		resp.TopProducts = append(resp.TopProducts, RankedProductResponse{
			ProductId:  p.ProductId,
			Title:      p.Title,
			SalesCount: p.SalesCount,
		})
	}
	return resp
}

func (rd *DashboardResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// inventory

type VariantResponse struct {
	Id    string `json:"id"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

type ProductRollupResponse struct {
	Id              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Price           decimal.Decimal   `json:"price"`
	Views           int               `json:"views"`
	Rating          decimal.Decimal   `json:"rating"`
	TotalRatings    int               `json:"totalRatings"`
	CreatedAt       time.Time         `json:"createdAt"`
	Variants        []VariantResponse `json:"variants"`
	TotalStock      int               `json:"totalStock"`
	TotalSales      int               `json:"totalSales"`
	FailedRelations []string          `json:"failedRelations,omitempty"`
}

func NewProductRollupResponse(pr *entity.ProductRollup) *ProductRollupResponse {
	resp := &ProductRollupResponse{
		Id:              pr.Product.Id,
		Title:           pr.Product.Title,
		Description:     pr.Product.Description.String,
		Price:           pr.Product.Price,
		Views:           pr.Product.ViewCount(),
		Rating:          pr.Product.RatingDecimal(),
		TotalRatings:    int(pr.Product.TotalRatings.Int32),
		CreatedAt:       pr.Product.CreatedAt,
		Variants:        make([]VariantResponse, 0, len(pr.Variants)),
		TotalStock:      pr.TotalStock,
		TotalSales:      pr.TotalSales,
		FailedRelations: pr.FailedRelations,
	}
	for _, v := range pr.Variants {
		resp.Variants = append(resp.Variants, VariantResponse{
			Id:    v.Id,
			Size:  v.Size,
			Color: v.Color,
			Stock: v.Stock,
		})
	}
	return resp
}

func (rd *ProductRollupResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewInventoryListResponse(rollups []entity.ProductRollup) []render.Renderer {
	list := []render.Renderer{}
	for i := range rollups {
		list = append(list, NewProductRollupResponse(&rollups[i]))
	}
	return list
}

// referrals

type ReferralResponse struct {
	Id               string          `json:"id"`
	ReferredId       string          `json:"referredId"`
	CommissionEarned decimal.Decimal `json:"commissionEarned"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type ReferralsResponse struct {
	TotalReferrals    int                `json:"totalReferrals"`
	TotalEarnings     decimal.Decimal    `json:"totalEarnings"`
	Referrals         []ReferralResponse `json:"referrals"`
	Link              string             `json:"link,omitempty"`
	DegradedRelations []string           `json:"degradedRelations,omitempty"`
}

func NewReferralsResponse(page *entity.ReferralPage) *ReferralsResponse {
	resp := &ReferralsResponse{
		TotalReferrals:    page.Ledger.TotalReferrals,
		TotalEarnings:     page.Ledger.TotalEarnings,
		Referrals:         make([]ReferralResponse, 0, len(page.Ledger.Referrals)),
		Link:              page.Link,
		DegradedRelations: page.Ledger.DegradedRelations,
	}
	for _, ref := range page.Ledger.Referrals {
		resp.Referrals = append(resp.Referrals, ReferralResponse{
			Id:               ref.Id,
			ReferredId:       ref.ReferredId,
			CommissionEarned: ref.CommissionEarned,
			CreatedAt:        ref.CreatedAt,
		})
	}
	return resp
}

func (rd *ReferralsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// payout settings

type PayoutSettingsRequest struct {
	entity.ProfileUpdate
}

func (ps *PayoutSettingsRequest) Bind(r *http.Request) error {
	return nil
}

type PayoutSettingsResponse struct {
	WithdrawalMethod    string     `json:"withdrawalMethod,omitempty"`
	BtcWallet           string     `json:"btcWallet,omitempty"`
	Iban                string     `json:"iban,omitempty"`
	WithdrawalFrequency int        `json:"withdrawalFrequency,omitempty"`
	LastWithdrawalDate  *time.Time `json:"lastWithdrawalDate,omitempty"`
	NextWithdrawalDate  *time.Time `json:"nextWithdrawalDate,omitempty"`
}

func NewPayoutSettingsResponse(p *entity.Profile, now time.Time) *PayoutSettingsResponse {
	resp := &PayoutSettingsResponse{
		WithdrawalMethod:    p.WithdrawalMethod.String,
		BtcWallet:           p.BtcWallet.String,
		Iban:                p.Iban.String,
		WithdrawalFrequency: int(p.WithdrawalFrequency.Int32),
	}
	if p.LastWithdrawalDate.Valid {
		last := p.LastWithdrawalDate.Time
		resp.LastWithdrawalDate = &last
	}
	if next, ok := p.NextWithdrawal(now); ok {
		resp.NextWithdrawalDate = &next
	}
	return resp
}

func (rd *PayoutSettingsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// health

type HealthResponse struct {
	Status string `json:"status"`
}

func (rd *HealthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
