package calculator

import (
	"math"

	"StockLens/internal/model"
)

// SpikeThreshold is the default absolute daily change above which a day is a spike (5%).
const SpikeThreshold = 0.05

// FindSpikeDays returns the days whose absolute change exceeds threshold, in order.
// Days without a change (the first day) never qualify.
func FindSpikeDays(days []model.Day, threshold float64) []model.Day {
	var spikes []model.Day
	for _, d := range days {
		if d.HasChange && math.Abs(d.Change) > threshold {
			spikes = append(spikes, d)
		}
	}
	return spikes
}
