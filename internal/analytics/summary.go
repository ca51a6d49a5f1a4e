package analytics

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes the summary cards. ConversionRate is sale count over views as a
// percentage and is zero when there are no views.
func Summarize(sales []entity.Sale, productCount int, views []sql.NullInt32) entity.SummaryStats {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Amount)
	}

	totalViews := 0
	for _, v := range views {
		if v.Valid && v.Int32 > 0 {
			totalViews += int(v.Int32)
		}
	}

	conversion := decimal.Zero
	if totalViews > 0 {
		conversion = decimal.NewFromInt(int64(len(sales))).
			Div(decimal.NewFromInt(int64(totalViews))).
			Mul(hundred)
	}

	if productCount < 0 {
		productCount = 0
	}

	return entity.SummaryStats{
		TotalSales:     total,
		SalesCount:     len(sales),
		ActiveProducts: productCount,
		TotalViews:     totalViews,
		ConversionRate: conversion,
	}
}

// Summary fetches the seller's sales, product count and product views concurrently and
// summarizes them. A failed fetch is logged and counted as empty; the relation is listed in
// DegradedRelations.
func (e *Engine) Summary(ctx context.Context, sellerId string) (*entity.SummaryStats, error) {
	if sellerId == "" {
		return nil, gerr.ErrUnauthenticated
	}

	var (
		wg           sync.WaitGroup
		sales        []entity.Sale
		productCount int
		views        []sql.NullInt32
		salesErr     error
		countErr     error
		viewsErr     error
	)
	wg.Go(func() {
		sales, salesErr = e.store.Sales().GetSales(ctx, entity.SalesFilter{Owner: sellerId})
	})
	wg.Go(func() {
		productCount, countErr = e.store.Products().CountProductsByOwner(ctx, sellerId)
	})
	wg.Go(func() {
		views, viewsErr = e.store.Products().GetViewsByOwner(ctx, sellerId)
	})
	wg.Wait()

	var degraded []string
	if salesErr != nil {
		logFetchFailed(ctx, entity.RelationSales, salesErr)
		degraded = append(degraded, entity.RelationSales)
		sales = nil
	}
	if countErr != nil {
		logFetchFailed(ctx, entity.RelationProductCount, countErr)
		degraded = append(degraded, entity.RelationProductCount)
		productCount = 0
	}
	if viewsErr != nil {
		logFetchFailed(ctx, entity.RelationProductViews, viewsErr)
		degraded = append(degraded, entity.RelationProductViews)
		views = nil
	}

	stats := Summarize(sales, productCount, views)
	stats.DegradedRelations = degraded
	return &stats, nil
}
