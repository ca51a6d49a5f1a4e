package store

import (
	"context"
	"testing"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesStore_GetSales(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	p1 := addTestProduct(t, db, "seller-1", "A", 0, baseTime)
	p2 := addTestProduct(t, db, "seller-1", "B", 0, baseTime)

	s1 := addTestSale(t, db, p1, "seller-1", 2, "10", baseTime.Add(1*time.Minute))
	s2 := addTestSale(t, db, p2, "seller-1", 1, "20", baseTime.Add(2*time.Minute))
	s3 := addTestSale(t, db, p1, "seller-1", 3, "15", baseTime.Add(3*time.Minute))
	addTestSale(t, db, "", "seller-2", 1, "99", baseTime.Add(4*time.Minute))

	t.Run("by product", func(t *testing.T) {
		sales, err := db.Sales().GetSales(ctx, entity.SalesFilter{ProductId: p1})
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, s1, sales[0].Id)
		assert.Equal(t, s3, sales[1].Id)
	})

	t.Run("by product ids", func(t *testing.T) {
		sales, err := db.Sales().GetSales(ctx, entity.SalesFilter{ProductIds: []string{p1, p2}})
		require.NoError(t, err)
		assert.Len(t, sales, 3)

		sales, err = db.Sales().GetSales(ctx, entity.SalesFilter{ProductIds: []string{}})
		require.NoError(t, err)
		assert.Empty(t, sales)
	})

	t.Run("latest by owner", func(t *testing.T) {
		sales, err := db.Sales().GetSales(ctx, entity.SalesFilter{Owner: "seller-1", Limit: 2, OrderCreatedDesc: true})
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, s3, sales[0].Id)
		assert.Equal(t, s2, sales[1].Id)
	})

	t.Run("since", func(t *testing.T) {
		sales, err := db.Sales().GetSales(ctx, entity.SalesFilter{Owner: "seller-1", Since: baseTime.Add(90 * time.Second)})
		require.NoError(t, err)
		assert.Len(t, sales, 2)
	})

	t.Run("window", func(t *testing.T) {
		f := entity.SalesFilter{Owner: "seller-1", Since: baseTime.Add(1 * time.Minute), Until: baseTime.Add(2 * time.Minute)}
		sales, err := db.Sales().GetSales(ctx, f)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, s2, sales[0].Id)

		sum, err := db.Sales().SumSalesAmount(ctx, f)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(20)), sum.String())
	})

	t.Run("sum", func(t *testing.T) {
		sum, err := db.Sales().SumSalesAmount(ctx, entity.SalesFilter{Owner: "seller-1"})
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(45)), sum.String())

		sum, err = db.Sales().SumSalesAmount(ctx, entity.SalesFilter{Owner: "nobody"})
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}

func TestSalesStore_AddSaleRejectsZeroQuantity(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Sales().AddSale(context.Background(), &entity.SaleInsert{Quantity: 0, Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
}
