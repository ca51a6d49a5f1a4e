package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *SQLStore {
	t.Helper()
	db, err := New(context.Background(), Config{
		Driver:             DriverSQLite,
		DSN:                fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString()),
		Automigrate:        true,
		MaxOpenConnections: 1,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func addTestProduct(t *testing.T, db *SQLStore, owner, title string, views int32, created time.Time, variants ...entity.ProductVariantInsert) string {
	t.Helper()
	p := &entity.ProductInsert{
		Title:     title,
		Price:     decimal.RequireFromString("29.99"),
		OwnerId:   owner,
		CreatedAt: created,
	}
	p.Views.Int32, p.Views.Valid = views, true
	id, err := db.Products().AddProduct(context.Background(), &entity.ProductNew{
		Product:  p,
		Variants: variants,
	})
	require.NoError(t, err)
	return id
}

func addTestSale(t *testing.T, db *SQLStore, productId, seller string, qty int, amount string, created time.Time) string {
	t.Helper()
	s := &entity.SaleInsert{
		Quantity:  qty,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: created,
	}
	if productId != "" {
		s.ProductId.String, s.ProductId.Valid = productId, true
	}
	s.UserId.String, s.UserId.Valid = seller, true
	id, err := db.Sales().AddSale(context.Background(), s)
	require.NoError(t, err)
	return id
}

func variant(size, color string, stock int) entity.ProductVariantInsert {
	return entity.ProductVariantInsert{Size: size, Color: color, Stock: stock}
}

func TestStore_Ping(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Ping(context.Background()))
}
