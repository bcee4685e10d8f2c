package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"
	_ "time/tzdata"

	"StockLens/internal/model"
)

// newYork is the session calendar for US daily bars.
var newYork = loadLocation("America/New_York")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDailyRange returns daily bars dated within [start, end], both inclusive,
	// in ascending date order. An unknown symbol yields an empty slice.
	FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// normalizeBars keys bars by calendar date, sorts them, drops bars outside
// [start, end] and keeps the last bar seen for a repeated date.
func normalizeBars(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	from, to := model.CalendarDate(start), model.CalendarDate(end)

	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		b.Time = b.Date()
		if b.Time.Before(from) || b.Time.After(to) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}
