package analytics

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store down")

// fakeStore is an in-memory record store. Setting a relation in fail makes every read of
// that relation return errStoreDown.
type fakeStore struct {
	products  []entity.Product
	variants  []entity.ProductVariant
	sales     []entity.Sale
	referrals []entity.Referral
	fail      map[string]bool
	calls     atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{fail: map[string]bool{}}
}

func (f *fakeStore) Products() dependency.Products   { return fakeProducts{f} }
func (f *fakeStore) Variants() dependency.Variants   { return fakeVariants{f} }
func (f *fakeStore) Sales() dependency.Sales         { return fakeSales{f} }
func (f *fakeStore) Profiles() dependency.Profiles   { return nil }
func (f *fakeStore) Referrals() dependency.Referrals { return fakeReferrals{f} }

func (f *fakeStore) read(relation string) error {
	f.calls.Add(1)
	if f.fail[relation] {
		return errStoreDown
	}
	return nil
}

func (f *fakeStore) addProduct(id, owner, title string, views int32, variants ...entity.ProductVariantInsert) {
	p := entity.Product{Id: id}
	p.Title = title
	p.OwnerId = owner
	p.Views = sql.NullInt32{Int32: views, Valid: true}
	f.products = append(f.products, p)
	for i, v := range variants {
		v.ProductId = sql.NullString{String: id, Valid: true}
		f.variants = append(f.variants, entity.ProductVariant{
			Id:                   id + "-v" + string(rune('0'+i)),
			ProductVariantInsert: v,
		})
	}
}

func (f *fakeStore) addSale(productId, seller string, qty int, amount string, at time.Time) {
	s := entity.Sale{Id: productId + at.String()}
	if productId != "" {
		s.ProductId = sql.NullString{String: productId, Valid: true}
	}
	s.UserId = sql.NullString{String: seller, Valid: true}
	s.Quantity = qty
	s.Amount = decimal.RequireFromString(amount)
	s.CreatedAt = at
	f.sales = append(f.sales, s)
}

type fakeProducts struct{ f *fakeStore }

func (p fakeProducts) AddProduct(context.Context, *entity.ProductNew) (string, error) {
	return "", errors.New("read only")
}

func (p fakeProducts) GetProductById(_ context.Context, id string) (*entity.Product, error) {
	if err := p.f.read(entity.RelationProducts); err != nil {
		return nil, err
	}
	for _, prd := range p.f.products {
		if prd.Id == id {
			return &prd, nil
		}
	}
	return nil, gerr.ErrProductNotFound
}

func (p fakeProducts) GetProductsByOwner(_ context.Context, owner string) ([]entity.Product, error) {
	if err := p.f.read(entity.RelationProducts); err != nil {
		return nil, err
	}
	var out []entity.Product
	for _, prd := range p.f.products {
		if prd.OwnerId == owner {
			out = append(out, prd)
		}
	}
	return out, nil
}

func (p fakeProducts) CountProductsByOwner(ctx context.Context, owner string) (int, error) {
	if err := p.f.read(entity.RelationProductCount); err != nil {
		return 0, err
	}
	n := 0
	for _, prd := range p.f.products {
		if prd.OwnerId == owner {
			n++
		}
	}
	return n, nil
}

func (p fakeProducts) GetViewsByOwner(_ context.Context, owner string) ([]sql.NullInt32, error) {
	if err := p.f.read(entity.RelationProductViews); err != nil {
		return nil, err
	}
	var out []sql.NullInt32
	for _, prd := range p.f.products {
		if prd.OwnerId == owner {
			out = append(out, prd.Views)
		}
	}
	return out, nil
}

type fakeVariants struct{ f *fakeStore }

func (v fakeVariants) GetVariantsByProductId(ctx context.Context, id string) ([]entity.ProductVariant, error) {
	return v.GetVariantsByProductIds(ctx, []string{id})
}

func (v fakeVariants) GetVariantsByProductIds(_ context.Context, ids []string) ([]entity.ProductVariant, error) {
	if err := v.f.read(entity.RelationVariants); err != nil {
		return nil, err
	}
	want := toSet(ids)
	var out []entity.ProductVariant
	for _, pv := range v.f.variants {
		if want[pv.ProductId.String] {
			out = append(out, pv)
		}
	}
	return out, nil
}

type fakeSales struct{ f *fakeStore }

func (s fakeSales) AddSale(context.Context, *entity.SaleInsert) (string, error) {
	return "", errors.New("read only")
}

func (s fakeSales) GetSales(_ context.Context, filter entity.SalesFilter) ([]entity.Sale, error) {
	if err := s.f.read(entity.RelationSales); err != nil {
		return nil, err
	}
	ids := toSet(filter.ProductIds)
	var out []entity.Sale
	for _, sale := range s.f.sales {
		switch {
		case filter.ProductId != "" && sale.ProductId.String != filter.ProductId:
			continue
		case filter.ProductIds != nil && !ids[sale.ProductId.String]:
			continue
		case filter.Owner != "" && sale.UserId.String != filter.Owner:
			continue
		}
		out = append(out, sale)
	}
	if filter.OrderCreatedDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s fakeSales) SumSalesAmount(ctx context.Context, filter entity.SalesFilter) (decimal.Decimal, error) {
	filter.Limit = 0
	sales, err := s.GetSales(ctx, filter)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, sale := range sales {
		sum = sum.Add(sale.Amount)
	}
	return sum, nil
}

type fakeReferrals struct{ f *fakeStore }

func (r fakeReferrals) AddReferral(context.Context, *entity.ReferralInsert) (string, error) {
	return "", errors.New("read only")
}

func (r fakeReferrals) GetReferralsByReferrer(_ context.Context, referrer string) ([]entity.Referral, error) {
	if err := r.f.read(entity.RelationReferrals); err != nil {
		return nil, err
	}
	var out []entity.Referral
	for _, ref := range r.f.referrals {
		if ref.ReferrerId == referrer {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (r fakeReferrals) ReferralEarningsTotal(ctx context.Context, referrer string) (decimal.Decimal, error) {
	if err := r.f.read(entity.RelationReferralTotals); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, ref := range r.f.referrals {
		if ref.ReferrerId == referrer {
			sum = sum.Add(ref.CommissionEarned)
		}
	}
	return sum, nil
}

func (r fakeReferrals) ReferralCountTotal(_ context.Context, referrer string) (int, error) {
	if err := r.f.read(entity.RelationReferralCount); err != nil {
		return 0, err
	}
	n := 0
	for _, ref := range r.f.referrals {
		if ref.ReferrerId == referrer {
			n++
		}
	}
	return n, nil
}

func (r fakeReferrals) ReferralEarningsBetween(ctx context.Context, referrer string, since, until time.Time) (decimal.Decimal, error) {
	if err := r.f.read(entity.RelationReferralTotals); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, ref := range r.f.referrals {
		if ref.ReferrerId == referrer && ref.CreatedAt.After(since) && (until.IsZero() || !ref.CreatedAt.After(until)) {
			sum = sum.Add(ref.CommissionEarned)
		}
	}
	return sum, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
