package calculator

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"StockLens/internal/model"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// Summarize computes return and volatility statistics over days.
// Spike, high and low counts are left for the caller.
func Summarize(days []model.Day) model.Summary {
	s := model.Summary{Sessions: len(days)}
	if len(days) == 0 {
		return s
	}
	s.FirstClose = days[0].Close
	s.LastClose = days[len(days)-1].Close
	if s.FirstClose != 0 {
		s.TotalReturn = s.LastClose/s.FirstClose - 1
	}

	changes := extractChanges(days)
	if len(changes) == 0 {
		return s
	}
	s.MaxGain = floats.Max(changes)
	s.MaxLoss = floats.Min(changes)
	if len(changes) < 2 {
		s.MeanChange = changes[0]
		return s
	}
	s.MeanChange, s.StdDevChange = stat.MeanStdDev(changes, nil)
	s.AnnualizedVol = s.StdDevChange * math.Sqrt(TradingDaysPerYear)
	return s
}

func extractChanges(days []model.Day) []float64 {
	changes := make([]float64, 0, len(days))
	for _, d := range days {
		if d.HasChange {
			changes = append(changes, d.Change)
		}
	}
	return changes
}
