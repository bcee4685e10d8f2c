package calculator

import (
	"errors"
	"fmt"

	"StockLens/internal/model"
)

const dateLayout = "2006-01-02"

var (
	// ErrZeroClose is returned when a change would divide by a zero previous close.
	ErrZeroClose = errors.New("zero close price")
	// ErrUnordered is returned when bar dates are not strictly increasing.
	ErrUnordered = errors.New("bars not in strictly ascending date order")
)

// ValidateSeries checks that bar dates are unique and strictly increasing.
func ValidateSeries(bars []model.OHLCV) error {
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1].Date(), bars[i].Date()
		if !cur.After(prev) {
			return fmt.Errorf("bar %d dated %s follows %s: %w",
				i, cur.Format(dateLayout), prev.Format(dateLayout), ErrUnordered)
		}
	}
	return nil
}

// ComputeChange returns a new series where each day carries
// change = (close[t] - close[t-1]) / close[t-1].
// The first day has no change. The input is not modified.
func ComputeChange(bars []model.OHLCV) ([]model.Day, error) {
	days := make([]model.Day, len(bars))
	for i, b := range bars {
		days[i] = model.Day{OHLCV: b}
		if i == 0 {
			continue
		}
		prev := bars[i-1].Close
		if prev == 0 {
			return nil, fmt.Errorf("change on %s: %w", b.Date().Format(dateLayout), ErrZeroClose)
		}
		days[i].Change = (b.Close - prev) / prev
		days[i].HasChange = true
	}
	return days, nil
}
