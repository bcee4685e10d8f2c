package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockLens/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	Client *marketdata.Client
	Feed   marketdata.Feed
}

// NewAlpacaFetcher creates a fetcher for the given feed ("iex" or "sip").
func NewAlpacaFetcher(apiKey, apiSecret, feed string) *AlpacaFetcher {
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		Feed: marketdata.Feed(feed),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     model.CalendarDate(start),
		End:       model.CalendarDate(end).AddDate(0, 0, 1),
		Feed:      f.Feed,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca get bars: %w", err)
	}
	return normalizeBars(barsFromAlpaca(bars), start, end), nil
}

func barsFromAlpaca(bars []marketdata.Bar) []model.OHLCV {
	out := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		out[i] = model.OHLCV{
			Time:   b.Timestamp.In(newYork),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return out
}
