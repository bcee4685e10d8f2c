package calculator

import (
	"time"

	"StockLens/internal/model"
)

// daysBetween returns the number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(model.CalendarDate(b).Sub(model.CalendarDate(a)) / (24 * time.Hour))
}

// RollingExtremes returns, for every day t, the max and min close over all days
// dated within [t - lookbackDays, t]. The window is by calendar date, not by count,
// and both ends are inclusive.
func RollingExtremes(days []model.Day, lookbackDays int) (maxes, mins []float64) {
	maxes = make([]float64, len(days))
	mins = make([]float64, len(days))

	// Monotonic queues of indices: closes decreasing in maxQ, increasing in minQ.
	var maxQ, minQ []int
	for i, d := range days {
		for len(maxQ) > 0 && days[maxQ[len(maxQ)-1]].Close <= d.Close {
			maxQ = maxQ[:len(maxQ)-1]
		}
		maxQ = append(maxQ, i)
		for len(minQ) > 0 && days[minQ[len(minQ)-1]].Close >= d.Close {
			minQ = minQ[:len(minQ)-1]
		}
		minQ = append(minQ, i)

		date := d.Date()
		for daysBetween(days[maxQ[0]].Date(), date) > lookbackDays {
			maxQ = maxQ[1:]
		}
		for daysBetween(days[minQ[0]].Date(), date) > lookbackDays {
			minQ = minQ[1:]
		}

		maxes[i] = days[maxQ[0]].Close
		mins[i] = days[minQ[0]].Close
	}
	return maxes, mins
}
