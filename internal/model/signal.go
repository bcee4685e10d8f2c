package model

import "time"

// Summary holds aggregate statistics over a series of days.
type Summary struct {
	Sessions      int
	FirstClose    float64
	LastClose     float64
	TotalReturn   float64
	MeanChange    float64
	StdDevChange  float64
	AnnualizedVol float64
	MaxGain       float64
	MaxLoss       float64
	SpikeCount    int
	HighCount     int
	LowCount      int
}

// Analysis is the output of one collect run: the augmented series plus the derived day sets.
type Analysis struct {
	Symbol      string
	Source      string
	Start       time.Time
	End         time.Time
	Days        []Day
	Spikes      []Day
	Highs       []Day // 6-month highs
	Lows        []Day // 6-month lows
	Summary     Summary
	GeneratedAt time.Time
}
