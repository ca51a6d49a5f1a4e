package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/shopspring/decimal"
)

type salesStore struct {
	*SQLStore
}

// Sales returns an object implementing sales interface
func (ms *SQLStore) Sales() dependency.Sales {
	return &salesStore{
		SQLStore: ms,
	}
}

const saleColumns = `id, product_id, variant_id, user_id, quantity, amount, created_at`

func (ms *salesStore) AddSale(ctx context.Context, s *entity.SaleInsert) (string, error) {
	if s.Quantity < 1 {
		return "", fmt.Errorf("sale quantity must be at least 1")
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = ms.Now()
	}
	id := uuid.NewString()
	query := `
	INSERT INTO sales (id, product_id, variant_id, user_id, quantity, amount, created_at)
	VALUES (:id, :productId, :variantId, :userId, :quantity, :amount, :createdAt)`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id":        id,
		"productId": s.ProductId,
		"variantId": s.VariantId,
		"userId":    s.UserId,
		"quantity":  s.Quantity,
		"amount":    s.Amount,
		"createdAt": createdAt,
	})
	if err != nil {
		return "", fmt.Errorf("can't add sale: %w", err)
	}
	return id, nil
}

// salesWhere builds the WHERE clause for f. ok is false when the filter
// names an empty product id set, which can match nothing.
func salesWhere(f entity.SalesFilter) (string, map[string]any, bool) {
	conds := []string{}
	params := map[string]any{}
	if f.ProductId != "" {
		conds = append(conds, "product_id = :productId")
		params["productId"] = f.ProductId
	}
	if f.ProductIds != nil {
		if len(f.ProductIds) == 0 {
			return "", nil, false
		}
		conds = append(conds, "product_id IN (:productIds)")
		params["productIds"] = f.ProductIds
	}
	if f.Owner != "" {
		conds = append(conds, "user_id = :owner")
		params["owner"] = f.Owner
	}
	if !f.Since.IsZero() {
		conds = append(conds, "created_at > :since")
		params["since"] = f.Since
	}
	if !f.Until.IsZero() {
		conds = append(conds, "created_at <= :until")
		params["until"] = f.Until
	}
	if len(conds) == 0 {
		return "", params, true
	}
	return " WHERE " + strings.Join(conds, " AND "), params, true
}

// GetSales returns sales matching the filter. With OrderCreatedDesc the most recent come first,
// otherwise sales come in creation order.
func (ms *salesStore) GetSales(ctx context.Context, f entity.SalesFilter) ([]entity.Sale, error) {
	where, params, ok := salesWhere(f)
	if !ok {
		return []entity.Sale{}, nil
	}
	query := `SELECT ` + saleColumns + ` FROM sales` + where
	if f.OrderCreatedDesc {
		query += ` ORDER BY created_at DESC, id DESC`
	} else {
		query += ` ORDER BY created_at ASC, id ASC`
	}
	if f.Limit > 0 {
		query += ` LIMIT :limit`
		params["limit"] = f.Limit
	}

	sales, err := QueryListNamed[entity.Sale](ctx, ms.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales: %w", err)
	}
	return sales, nil
}

func (ms *salesStore) SumSalesAmount(ctx context.Context, f entity.SalesFilter) (decimal.Decimal, error) {
	where, params, ok := salesWhere(f)
	if !ok {
		return decimal.Zero, nil
	}
	query := `SELECT COALESCE(SUM(amount), 0) FROM sales` + where
	sum, err := QueryScalarNamed[decimal.Decimal](ctx, ms.db, query, params)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't sum sales amount: %w", err)
	}
	return sum, nil
}
