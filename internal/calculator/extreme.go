package calculator

import (
	"time"

	"StockLens/internal/model"
)

const (
	// ExtremeLookbackDays is the trailing window for 6-month highs and lows.
	ExtremeLookbackDays = 180
	// DefaultCooldownDays is the minimum distance between two accepted extremes of the same kind.
	DefaultCooldownDays = 3
)

// cooldown accepts a date only if at least window days passed since the last accepted one.
type cooldown struct {
	window int
	last   time.Time
	seen   bool
}

func (c *cooldown) accept(date time.Time) bool {
	if c.seen && daysBetween(c.last, date) < c.window {
		return false
	}
	c.last = date
	c.seen = true
	return true
}

// FindExtremeDays returns the days whose close equals the trailing rolling max (highs)
// or min (lows), keeping only candidates at least window days after the previously
// accepted one of the same kind. Highs and lows are tracked independently, so a day
// can appear in both.
func FindExtremeDays(days []model.Day, lookbackDays, window int) (highs, lows []model.Day) {
	maxes, mins := RollingExtremes(days, lookbackDays)

	high := cooldown{window: window}
	low := cooldown{window: window}
	for i, d := range days {
		date := d.Date()
		if d.Close == maxes[i] && high.accept(date) {
			highs = append(highs, d)
		}
		if d.Close == mins[i] && low.accept(date) {
			lows = append(lows, d)
		}
	}
	return highs, lows
}
