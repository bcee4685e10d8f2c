package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Date returns the calendar date of the bar at UTC midnight.
func (b OHLCV) Date() time.Time {
	return CalendarDate(b.Time)
}

// CalendarDate drops the clock part of t, keeping its year, month and day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day is a bar together with its close-to-close change versus the previous bar.
type Day struct {
	OHLCV
	Change    float64
	HasChange bool // false for the first bar of a series
}
