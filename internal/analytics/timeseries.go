package analytics

import (
	"context"
	"time"

	"github.com/jekabolt/privshop-seller/internal/entity"
	gerr "github.com/jekabolt/privshop-seller/internal/errors"
	"golang.org/x/text/language"
)

// DateFormatter renders a sale timestamp as a locale date string.
type DateFormatter func(t time.Time) string

var (
	dateLayouts = []string{
		"1/2/2006",    // en
		"2/1/2006",    // es, fr, it, pt
		"2.1.2006",    // de, ru
		"2006/1/2",    // ja, zh
		"2006. 1. 2.", // ko
	}
	dateMatcher = language.NewMatcher([]language.Tag{
		language.AmericanEnglish,
		language.English,
		language.Spanish,
		language.French,
		language.Italian,
		language.Portuguese,
		language.German,
		language.Russian,
		language.Japanese,
		language.Chinese,
		language.Korean,
	})
	// index of each matcher tag into dateLayouts
	dateLayoutIndex = []int{0, 0, 1, 1, 1, 1, 2, 2, 3, 3, 4}
)

// NewDateFormatter returns a formatter for the BCP 47 locale. Unknown or malformed
// locales fall back to the en-US layout.
func NewDateFormatter(locale string) DateFormatter {
	layout := dateLayouts[0]
	if tag, err := language.Parse(locale); err == nil {
		_, idx, conf := dateMatcher.Match(tag)
		if conf != language.No {
			layout = dateLayouts[dateLayoutIndex[idx]]
		}
	}
	return func(t time.Time) string {
		return t.Format(layout)
	}
}

// SalesSeries maps each sale to one chart point, keeping the input order. Sales sharing a
// date stay separate points.
func SalesSeries(sales []entity.Sale, format DateFormatter) []entity.SalesPoint {
	if format == nil {
		format = NewDateFormatter(DefaultLocale)
	}
	points := make([]entity.SalesPoint, 0, len(sales))
	for _, s := range sales {
		points = append(points, entity.SalesPoint{
			Date:   format(s.CreatedAt),
			Amount: s.Amount,
		})
	}
	return points
}

// SalesSeries returns the seller's last Config.SeriesWindow sales as chart points,
// most recent first.
func (e *Engine) SalesSeries(ctx context.Context, sellerId string) ([]entity.SalesPoint, error) {
	if sellerId == "" {
		return nil, gerr.ErrUnauthenticated
	}
	sales, err := e.store.Sales().GetSales(ctx, entity.SalesFilter{
		Owner:            sellerId,
		Limit:            e.c.SeriesWindow,
		OrderCreatedDesc: true,
	})
	if err != nil {
		return nil, gerr.FetchFailed(entity.RelationSales, err)
	}
	return SalesSeries(sales, e.dates), nil
}
