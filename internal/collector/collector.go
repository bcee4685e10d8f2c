package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

var (
	// ErrNoData means the data source returned no bars for the symbol and range.
	ErrNoData = errors.New("no data for symbol")
	// ErrInvalidSymbol means the symbol is empty or has characters no ticker uses.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=\-]{1,15}$`)

// NormalizeSymbol trims and upper-cases a user supplied ticker and checks its shape.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%q: %w", symbol, ErrInvalidSymbol)
	}
	return s, nil
}

// Options controls the date range and signal parameters of a collect run.
type Options struct {
	Start          time.Time
	End            time.Time
	SpikeThreshold float64
	LookbackDays   int
	CooldownDays   int
}

// DefaultOptions returns the fixed 2013-01-01 .. 2023-12-13 range with default signal parameters.
func DefaultOptions() Options {
	return Options{
		Start:          time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(2023, 12, 13, 0, 0, 0, 0, time.UTC),
		SpikeThreshold: calculator.SpikeThreshold,
		LookbackDays:   calculator.ExtremeLookbackDays,
		CooldownDays:   calculator.DefaultCooldownDays,
	}
}

// Collector orchestrates data fetching and signal computation.
type Collector struct {
	Fetcher Fetcher
	Options Options
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts Options) *Collector {
	return &Collector{Fetcher: fetcher, Options: opts}
}

// Collect fetches the daily series for symbol and derives change, spike and extreme days.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.Analysis, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	bars, err := c.Fetcher.FetchDailyRange(ctx, sym, c.Options.Start, c.Options.End)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", sym, ErrNoData)
	}
	if err := calculator.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("%s: %w", sym, err)
	}

	days, err := calculator.ComputeChange(bars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sym, err)
	}
	spikes := calculator.FindSpikeDays(days, c.Options.SpikeThreshold)
	highs, lows := calculator.FindExtremeDays(days, c.Options.LookbackDays, c.Options.CooldownDays)

	summary := calculator.Summarize(days)
	summary.SpikeCount = len(spikes)
	summary.HighCount = len(highs)
	summary.LowCount = len(lows)

	log.Printf("[INFO] %s via %s: %d bars, %d spikes, %d highs, %d lows",
		sym, c.Fetcher.Name(), len(days), len(spikes), len(highs), len(lows))

	return &model.Analysis{
		Symbol:      sym,
		Source:      c.Fetcher.Name(),
		Start:       days[0].Date(),
		End:         days[len(days)-1].Date(),
		Days:        days,
		Spikes:      spikes,
		Highs:       highs,
		Lows:        lows,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}, nil
}
