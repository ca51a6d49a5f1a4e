package analytics

import (
	"context"

	"github.com/jekabolt/privshop-seller/internal/entity"
	"golang.org/x/exp/slices"
)

// Rank returns the top n items by SalesCount, highest first. Items with equal counts keep
// their input order. n <= 0 means DefaultTopN.
func Rank(items []entity.RankedProduct, n int) []entity.RankedProduct {
	if n <= 0 {
		n = DefaultTopN
	}
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, func(a, b entity.RankedProduct) int {
		return b.SalesCount - a.SalesCount
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []entity.RankedProduct{}
	}
	return ranked
}

// RankRollups ranks rolled up products by their total sales.
func RankRollups(rollups []entity.ProductRollup, n int) []entity.RankedProduct {
	items := make([]entity.RankedProduct, 0, len(rollups))
	for _, r := range rollups {
		items = append(items, entity.RankedProduct{
			ProductId:  r.Product.Id,
			Title:      r.Product.Title,
			SalesCount: r.TotalSales,
		})
	}
	return Rank(items, n)
}

// TopProducts returns the seller's best selling products, Config.TopN at most.
func (e *Engine) TopProducts(ctx context.Context, sellerId string) ([]entity.RankedProduct, error) {
	rollups, err := e.InventoryRollup(ctx, sellerId)
	if err != nil {
		return nil, err
	}
	return RankRollups(rollups, e.c.TopN), nil
}
