package collector

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"StockLens/internal/model"
)

// PolygonFetcher implements Fetcher using Polygon.io daily aggregates.
type PolygonFetcher struct {
	Client *polygon.Client
}

// NewPolygonFetcher creates a Polygon fetcher with optional proxy support.
func NewPolygonFetcher(apiKey, proxyURL string) *PolygonFetcher {
	return &PolygonFetcher{Client: polygon.NewWithClient(apiKey, newHTTPClient(proxyURL))}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	params := &models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(model.CalendarDate(start)),
		To:         models.Millis(model.CalendarDate(end)),
	}
	limit := 50000
	asc := models.Asc
	adjusted := true
	params.Limit = &limit
	params.Order = &asc
	params.Adjusted = &adjusted

	var bars []model.OHLCV
	iter := f.Client.ListAggs(ctx, params)
	for iter.Next() {
		bars = append(bars, barFromAgg(iter.Item()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon list aggs: %w", err)
	}
	return normalizeBars(bars, start, end), nil
}

func barFromAgg(a models.Agg) model.OHLCV {
	return model.OHLCV{
		// day aggregates start at midnight New York time
		Time:   time.Time(a.Timestamp).In(newYork),
		Open:   a.Open,
		High:   a.High,
		Low:    a.Low,
		Close:  a.Close,
		Volume: a.Volume,
	}
}
