package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
)

type productStore struct {
	*SQLStore
}

// Products returns an object implementing product interface
func (ms *SQLStore) Products() dependency.Products {
	return &productStore{
		SQLStore: ms,
	}
}

const productColumns = `id, title, price, description, views, rating, total_ratings, user_id, created_at, updated_at`

func insertProduct(ctx context.Context, rep dependency.Repository, id string, product *entity.ProductInsert) error {
	query := `
	INSERT INTO products
	(id, title, price, description, views, rating, total_ratings, user_id, created_at, updated_at)
	VALUES (:id, :title, :price, :description, :views, :rating, :totalRatings, :userId, :createdAt, :createdAt)`

	views := product.Views
	if !views.Valid {
		views = sql.NullInt32{Int32: 0, Valid: true}
	}
	createdAt := product.CreatedAt
	if createdAt.IsZero() {
		createdAt = rep.Now()
	}

	err := ExecNamed(ctx, rep.DB(), query, map[string]any{
		"id":           id,
		"title":        product.Title,
		"price":        product.Price,
		"description":  product.Description,
		"views":        views,
		"rating":       product.Rating,
		"totalRatings": product.TotalRatings,
		"userId":       product.OwnerId,
		"createdAt":    createdAt,
	})
	if err != nil {
		return fmt.Errorf("can't insert product: %w", err)
	}
	return nil
}

func insertVariants(ctx context.Context, rep dependency.Repository, productId string, variants []entity.ProductVariantInsert) error {
	rows := make([]map[string]any, 0, len(variants))
	for _, v := range variants {
		createdAt := v.CreatedAt
		if createdAt.IsZero() {
			createdAt = rep.Now()
		}
		rows = append(rows, map[string]any{
			"id":         uuid.NewString(),
			"product_id": productId,
			"size":       v.Size,
			"color":      v.Color,
			"stock":      v.Stock,
			"created_at": createdAt,
		})
	}
	return BulkInsert(ctx, rep.DB(), "product_variants", rows)
}

// AddProduct adds a new product along with its variants.
func (ms *productStore) AddProduct(ctx context.Context, prd *entity.ProductNew) (string, error) {
	if prd == nil || prd.Product == nil {
		return "", fmt.Errorf("product is required")
	}
	id := uuid.NewString()
	err := ms.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		if err := insertProduct(ctx, rep, id, prd.Product); err != nil {
			return err
		}
		if err := insertVariants(ctx, rep, id, prd.Variants); err != nil {
			return fmt.Errorf("can't insert product variants: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("can't add product: %w", err)
	}
	return id, nil
}

// GetProductById returns a product by its ID.
func (ms *productStore) GetProductById(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = :id`
	p, err := QueryNamedOne[entity.Product](ctx, ms.db, query, map[string]any{
		"id": id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrProductNotFound
		}
		return nil, fmt.Errorf("can't get product by id: %w", err)
	}
	return &p, nil
}

// GetProductsByOwner returns the seller's products. The order is stable across calls
// so equal-sales products keep a predictable position in rankings.
func (ms *productStore) GetProductsByOwner(ctx context.Context, ownerId string) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = :ownerId ORDER BY created_at ASC, id ASC`
	products, err := QueryListNamed[entity.Product](ctx, ms.db, query, map[string]any{
		"ownerId": ownerId,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get products by owner: %w", err)
	}
	return products, nil
}

func (ms *productStore) CountProductsByOwner(ctx context.Context, ownerId string) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE user_id = :ownerId`
	count, err := QueryScalarNamed[int](ctx, ms.db, query, map[string]any{
		"ownerId": ownerId,
	})
	if err != nil {
		return 0, fmt.Errorf("can't count products by owner: %w", err)
	}
	return count, nil
}

func (ms *productStore) GetViewsByOwner(ctx context.Context, ownerId string) ([]sql.NullInt32, error) {
	query := `SELECT views FROM products WHERE user_id = :ownerId`
	views, err := QueryScalarListNamed[sql.NullInt32](ctx, ms.db, query, map[string]any{
		"ownerId": ownerId,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get product views by owner: %w", err)
	}
	return views, nil
}

type variantStore struct {
	*SQLStore
}

// Variants returns an object implementing variants interface
func (ms *SQLStore) Variants() dependency.Variants {
	return &variantStore{
		SQLStore: ms,
	}
}

const variantColumns = `id, product_id, size, color, stock, created_at`

func (ms *variantStore) GetVariantsByProductId(ctx context.Context, productId string) ([]entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = :productId ORDER BY created_at ASC, id ASC`
	variants, err := QueryListNamed[entity.ProductVariant](ctx, ms.db, query, map[string]any{
		"productId": productId,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get variants by product id: %w", err)
	}
	return variants, nil
}

func (ms *variantStore) GetVariantsByProductIds(ctx context.Context, productIds []string) ([]entity.ProductVariant, error) {
	if len(productIds) == 0 {
		return []entity.ProductVariant{}, nil
	}
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id IN (:productIds) ORDER BY created_at ASC, id ASC`
	variants, err := QueryListNamed[entity.ProductVariant](ctx, ms.db, query, map[string]any{
		"productIds": productIds,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get variants by product ids: %w", err)
	}
	return variants, nil
}
