package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
)

// Rollup folds variants and sales onto their products. Products keep their input order;
// a product with no variants or sales gets zero totals. Duplicate variants are summed.
func Rollup(products []entity.Product, variants []entity.ProductVariant, sales []entity.Sale) []entity.ProductRollup {
	variantsByProduct := make(map[string][]entity.ProductVariant, len(products))
	stock := make(map[string]int, len(products))
	for _, v := range variants {
		if !v.ProductId.Valid {
			continue
		}
		variantsByProduct[v.ProductId.String] = append(variantsByProduct[v.ProductId.String], v)
		stock[v.ProductId.String] += v.Stock
	}

	sold := make(map[string]int, len(products))
	for _, s := range sales {
		if !s.ProductId.Valid {
			continue
		}
		sold[s.ProductId.String] += s.Quantity
	}

	rollups := make([]entity.ProductRollup, 0, len(products))
	for _, p := range products {
		vs := variantsByProduct[p.Id]
		if vs == nil {
			vs = []entity.ProductVariant{}
		}
		rollups = append(rollups, entity.ProductRollup{
			Product:    p,
			Variants:   vs,
			TotalStock: stock[p.Id],
			TotalSales: sold[p.Id],
		})
	}
	return rollups
}

// InventoryRollup rolls up every product owned by sellerId. Variants and sales for the whole
// product set are fetched in one batch each; a failed batch marks every product with the
// failed relation instead of failing the call.
func (e *Engine) InventoryRollup(ctx context.Context, sellerId string) ([]entity.ProductRollup, error) {
	if sellerId == "" {
		return nil, gerr.ErrUnauthenticated
	}

	products, err := e.store.Products().GetProductsByOwner(ctx, sellerId)
	if err != nil {
		return nil, gerr.FetchFailed(entity.RelationProducts, err)
	}
	if len(products) == 0 {
		return []entity.ProductRollup{}, nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.Id)
	}

	variants, sales, failed := e.fetchChildren(ctx, func(ctx context.Context) ([]entity.ProductVariant, error) {
		return e.store.Variants().GetVariantsByProductIds(ctx, ids)
	}, func(ctx context.Context) ([]entity.Sale, error) {
		return e.store.Sales().GetSales(ctx, entity.SalesFilter{ProductIds: ids})
	})

	rollups := Rollup(products, variants, sales)
	if len(failed) > 0 {
		for i := range rollups {
			rollups[i].FailedRelations = append([]string(nil), failed...)
		}
	}
	return rollups, nil
}

// ProductRollup rolls up a single product.
func (e *Engine) ProductRollup(ctx context.Context, productId string) (*entity.ProductRollup, error) {
	p, err := e.store.Products().GetProductById(ctx, productId)
	if err != nil {
		return nil, err
	}

	variants, sales, failed := e.fetchChildren(ctx, func(ctx context.Context) ([]entity.ProductVariant, error) {
		return e.store.Variants().GetVariantsByProductId(ctx, productId)
	}, func(ctx context.Context) ([]entity.Sale, error) {
		return e.store.Sales().GetSales(ctx, entity.SalesFilter{ProductId: productId})
	})

	rollup := Rollup([]entity.Product{*p}, variants, sales)[0]
	rollup.FailedRelations = failed
	return &rollup, nil
}

// fetchChildren runs the variant and sales fetches concurrently. Each failure is logged and
// reported by relation name; the other result is still returned.
func (e *Engine) fetchChildren(
	ctx context.Context,
	fetchVariants func(context.Context) ([]entity.ProductVariant, error),
	fetchSales func(context.Context) ([]entity.Sale, error),
) ([]entity.ProductVariant, []entity.Sale, []string) {
	var (
		wg       sync.WaitGroup
		variants []entity.ProductVariant
		sales    []entity.Sale
		vErr     error
		sErr     error
	)
	wg.Go(func() {
		variants, vErr = fetchVariants(ctx)
	})
	wg.Go(func() {
		sales, sErr = fetchSales(ctx)
	})
	wg.Wait()

	var failed []string
	if vErr != nil {
		logFetchFailed(ctx, entity.RelationVariants, vErr)
		failed = append(failed, entity.RelationVariants)
		variants = nil
	}
	if sErr != nil {
		logFetchFailed(ctx, entity.RelationSales, sErr)
		failed = append(failed, entity.RelationSales)
		sales = nil
	}
	return variants, sales, failed
}

// FilterByTitle keeps the rollups whose product title contains term, ignoring case.
// An empty term keeps everything.
func FilterByTitle(rollups []entity.ProductRollup, term string) []entity.ProductRollup {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rollups
	}
	filtered := make([]entity.ProductRollup, 0, len(rollups))
	for _, r := range rollups {
		if strings.Contains(strings.ToLower(r.Product.Title), term) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func logFetchFailed(ctx context.Context, relation string, err error) {
	slog.Default().ErrorContext(ctx, "fetch failed, using empty default",
		slog.String("relation", relation),
		slog.String("err", fmt.Sprint(err)),
	)
}
