package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents the sales table. ProductId is null once the product is deleted,
// UserId is the credited seller.
type Sale struct {
	Id string `db:"id"`
	SaleInsert
}

type SaleInsert struct {
	ProductId sql.NullString  `db:"product_id"`
	VariantId sql.NullString  `db:"variant_id"`
	UserId    sql.NullString  `db:"user_id"`
	Quantity  int             `db:"quantity"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
}

// SalesFilter narrows a sales fetch. Zero values mean "no constraint".
type SalesFilter struct {
	ProductId        string
	ProductIds       []string
	Owner            string
	Since            time.Time
	Until            time.Time
	Limit            int
	OrderCreatedDesc bool
}
