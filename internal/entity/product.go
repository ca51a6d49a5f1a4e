package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the products table. Owner is stored in user_id.
type Product struct {
	Id        string    `db:"id"`
	UpdatedAt time.Time `db:"updated_at"`
	ProductInsert
}

type ProductInsert struct {
	Title        string              `db:"title"`
	Price        decimal.Decimal     `db:"price"`
	Description  sql.NullString      `db:"description"`
	Views        sql.NullInt32       `db:"views"`
	Rating       decimal.NullDecimal `db:"rating"`
	TotalRatings sql.NullInt32       `db:"total_ratings"`
	OwnerId      string              `db:"user_id"`
	CreatedAt    time.Time           `db:"created_at"`
}

// ViewCount returns views with null treated as zero.
func (p *Product) ViewCount() int {
	if !p.Views.Valid || p.Views.Int32 < 0 {
		return 0
	}
	return int(p.Views.Int32)
}

// RatingDecimal returns the rating rounded to one decimal place, zero when unrated.
func (p *Product) RatingDecimal() decimal.Decimal {
	if !p.Rating.Valid {
		return decimal.Zero
	}
	return p.Rating.Decimal.Round(1)
}

// ProductVariant represents the product_variants table: stock for one size/color combination.
type ProductVariant struct {
	Id string `db:"id"`
	ProductVariantInsert
}

type ProductVariantInsert struct {
	ProductId sql.NullString `db:"product_id"`
	Size      string         `db:"size"`
	Color     string         `db:"color"`
	Stock     int            `db:"stock"`
	CreatedAt time.Time      `db:"created_at"`
}

// ProductNew is a product with its variants, used by the write path.
type ProductNew struct {
	Product  *ProductInsert
	Variants []ProductVariantInsert
}
