package analytics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	f := newFakeStore()
	f.addSale("p1", "seller", 1, "10", t0)
	f.addSale("p1", "seller", 1, "20", t0)
	f.addSale("p2", "seller", 1, "15", t0)

	t.Run("totals", func(t *testing.T) {
		views := []sql.NullInt32{{Int32: 100, Valid: true}, {Int32: 50, Valid: true}, {}}
		s := Summarize(f.sales, 3, views)
		assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(45)))
		assert.Equal(t, 3, s.SalesCount)
		assert.Equal(t, 3, s.ActiveProducts)
		assert.Equal(t, 150, s.TotalViews)
		assert.True(t, s.ConversionRate.Equal(decimal.NewFromInt(2)), s.ConversionRate.String())
	})

	t.Run("zero views", func(t *testing.T) {
		s := Summarize(f.sales, 1, []sql.NullInt32{{Int32: 0, Valid: true}})
		assert.True(t, s.ConversionRate.IsZero())
		assert.Equal(t, 0, s.TotalViews)

		s = Summarize(f.sales, 0, nil)
		assert.True(t, s.ConversionRate.IsZero())
	})

	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil, 0, nil)
		assert.True(t, s.TotalSales.IsZero())
		assert.Equal(t, 0, s.SalesCount)
	})
}

func TestEngine_Summary(t *testing.T) {
	ctx := context.Background()
	newStore := func() *fakeStore {
		f := newFakeStore()
		f.addProduct("p1", "seller", "Camiseta", 1200)
		f.addProduct("p2", "seller", "Pantalón", 800)
		f.addProduct("p3", "other", "Ajena", 5000)
		f.addSale("p1", "seller", 1, "10", t0)
		f.addSale("p1", "seller", 1, "20", t0)
		f.addSale("p2", "seller", 1, "15", t0)
		return f
	}

	t.Run("all fetches", func(t *testing.T) {
		s, err := New(newStore(), nil).Summary(ctx, "seller")
		require.NoError(t, err)
		assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(45)))
		assert.Equal(t, 2, s.ActiveProducts)
		assert.Equal(t, 2000, s.TotalViews)
		assert.True(t, s.ConversionRate.Equal(decimal.RequireFromString("0.15")), s.ConversionRate.String())
		assert.Empty(t, s.DegradedRelations)
	})

	t.Run("views fail", func(t *testing.T) {
		f := newStore()
		f.fail[entity.RelationProductViews] = true
		s, err := New(f, nil).Summary(ctx, "seller")
		require.NoError(t, err)
		assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(45)))
		assert.Equal(t, 2, s.ActiveProducts)
		assert.Equal(t, 0, s.TotalViews)
		assert.True(t, s.ConversionRate.IsZero())
		assert.Equal(t, []string{entity.RelationProductViews}, s.DegradedRelations)
	})

	t.Run("sales and count fail", func(t *testing.T) {
		f := newStore()
		f.fail[entity.RelationSales] = true
		f.fail[entity.RelationProductCount] = true
		s, err := New(f, nil).Summary(ctx, "seller")
		require.NoError(t, err)
		assert.True(t, s.TotalSales.IsZero())
		assert.Equal(t, 0, s.ActiveProducts)
		assert.Equal(t, 2000, s.TotalViews)
		assert.ElementsMatch(t, []string{entity.RelationSales, entity.RelationProductCount}, s.DegradedRelations)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		f := newStore()
		_, err := New(f, nil).Summary(ctx, "")
		assert.ErrorIs(t, err, gerr.ErrUnauthenticated)
		assert.Zero(t, f.calls.Load())
	})
}
