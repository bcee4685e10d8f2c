package calculator

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"StockLens/internal/model"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// dailyBars builds one bar per consecutive calendar day starting at epoch.
func dailyBars(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: epoch.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func mustDays(t *testing.T, bars []model.OHLCV) []model.Day {
	t.Helper()
	days, err := ComputeChange(bars)
	if err != nil {
		t.Fatalf("ComputeChange: %v", err)
	}
	return days
}

func offsets(days []model.Day) []int {
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = daysBetween(epoch, d.Date())
	}
	return out
}

func TestComputeChange_FirstDayHasNoChange(t *testing.T) {
	days := mustDays(t, dailyBars(100, 110, 99, 99))
	if days[0].HasChange {
		t.Fatal("first day should have no change")
	}
	want := []float64{0.10, -0.10, 0}
	for i, w := range want {
		d := days[i+1]
		if !d.HasChange {
			t.Fatalf("day %d: expected change", i+1)
		}
		if math.Abs(d.Change-w) > 1e-12 {
			t.Errorf("day %d: expected %.4f, got %.4f", i+1, w, d.Change)
		}
	}
}

func TestComputeChange_MatchesRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 10 + rng.Float64()*90
	}
	days := mustDays(t, dailyBars(closes...))
	withoutChange := 0
	for i, d := range days {
		if !d.HasChange {
			withoutChange++
			continue
		}
		want := closes[i]/closes[i-1] - 1
		if math.Abs(d.Change-want) > 1e-12 {
			t.Errorf("day %d: expected %g, got %g", i, want, d.Change)
		}
	}
	if withoutChange != 1 {
		t.Errorf("expected exactly one day without change, got %d", withoutChange)
	}
}

func TestComputeChange_ZeroClose(t *testing.T) {
	_, err := ComputeChange(dailyBars(100, 0, 50))
	if !errors.Is(err, ErrZeroClose) {
		t.Fatalf("expected ErrZeroClose, got %v", err)
	}
}

func TestComputeChange_LeavesInputUntouched(t *testing.T) {
	bars := dailyBars(100, 120)
	before := append([]model.OHLCV(nil), bars...)
	mustDays(t, bars)
	if !reflect.DeepEqual(bars, before) {
		t.Error("input bars were modified")
	}
}

func TestValidateSeries(t *testing.T) {
	ok := dailyBars(1, 2, 3)
	if err := ValidateSeries(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := dailyBars(1, 2, 3)
	dup[2].Time = dup[1].Time.Add(3 * time.Hour)
	if err := ValidateSeries(dup); !errors.Is(err, ErrUnordered) {
		t.Errorf("duplicate date: expected ErrUnordered, got %v", err)
	}

	back := dailyBars(1, 2, 3)
	back[1], back[2] = back[2], back[1]
	if err := ValidateSeries(back); !errors.Is(err, ErrUnordered) {
		t.Errorf("unordered: expected ErrUnordered, got %v", err)
	}
}

func TestFindSpikeDays_StepUp(t *testing.T) {
	// Days 1-4 close at 100, day 5 jumps 10% and the level holds.
	days := mustDays(t, dailyBars(100, 100, 100, 100, 110, 110, 110, 110, 110, 110))
	spikes := FindSpikeDays(days, SpikeThreshold)
	if got := offsets(spikes); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("expected only day 5 (offset 4), got offsets %v", got)
	}
}

func TestFindSpikeDays_SingleDayBumpFlagsReversal(t *testing.T) {
	days := mustDays(t, dailyBars(100, 100, 100, 100, 110, 100, 100, 100, 100, 100))
	spikes := FindSpikeDays(days, SpikeThreshold)
	if got := offsets(spikes); !reflect.DeepEqual(got, []int{4, 5}) {
		t.Errorf("expected offsets [4 5], got %v", got)
	}
}

func TestFindSpikeDays_ThresholdIsExclusive(t *testing.T) {
	days := mustDays(t, dailyBars(100, 105, 99.75))
	if spikes := FindSpikeDays(days, SpikeThreshold); len(spikes) != 0 {
		t.Errorf("exact 5%% moves should not be spikes, got %v", offsets(spikes))
	}
}

func TestFindSpikeDays_MatchesFilter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	closes := []float64{100}
	for i := 1; i < 300; i++ {
		closes = append(closes, closes[i-1]*(1+(rng.Float64()-0.5)*0.2))
	}
	days := mustDays(t, dailyBars(closes...))
	spikes := FindSpikeDays(days, SpikeThreshold)

	var want []int
	for i, d := range days {
		if d.HasChange && math.Abs(d.Change) > SpikeThreshold {
			want = append(want, i)
		}
	}
	if got := offsets(spikes); !reflect.DeepEqual(got, want) {
		t.Errorf("spike offsets mismatch:\n got %v\nwant %v", got, want)
	}
	if len(spikes) > 0 && offsets(spikes)[0] == 0 {
		t.Error("first day must never be a spike")
	}
}

func TestFindExtremeDays_MonotonicRise(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	days := mustDays(t, dailyBars(closes...))
	highs, lows := FindExtremeDays(days, ExtremeLookbackDays, DefaultCooldownDays)

	var want []int
	for i := 0; i < 200; i += 3 {
		want = append(want, i)
	}
	if got := offsets(highs); !reflect.DeepEqual(got, want) {
		t.Errorf("highs:\n got %v\nwant %v", got, want)
	}
	if got := offsets(lows); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("lows: expected only day 1, got %v", got)
	}
}

func TestFindExtremeDays_FlatSeries(t *testing.T) {
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 50
	}
	days := mustDays(t, dailyBars(closes...))
	highs, lows := FindExtremeDays(days, ExtremeLookbackDays, DefaultCooldownDays)

	if len(highs) == 0 || len(lows) == 0 {
		t.Fatal("expected day 1 in both highs and lows")
	}
	if offsets(highs)[0] != 0 || offsets(lows)[0] != 0 {
		t.Errorf("expected first high and low on day 1, got %d and %d", offsets(highs)[0], offsets(lows)[0])
	}
	// Every day ties the rolling max and min, so the cooldown alone paces the flags.
	if !reflect.DeepEqual(offsets(highs), offsets(lows)) {
		t.Errorf("flat series should flag identical high and low days")
	}
	for i := 1; i < len(highs); i++ {
		if gap := daysBetween(highs[i-1].Date(), highs[i].Date()); gap != DefaultCooldownDays {
			t.Fatalf("expected plateau flags %d days apart, got %d", DefaultCooldownDays, gap)
		}
	}
}

func TestFindExtremeDays_CooldownFromAcceptedFlag(t *testing.T) {
	// Window 3 over daily new highs: day 2 is rejected, so day 3 is measured from day 0.
	days := mustDays(t, dailyBars(1, 2, 3, 4, 5))
	highs, _ := FindExtremeDays(days, ExtremeLookbackDays, 3)
	if got := offsets(highs); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Errorf("expected [0 3], got %v", got)
	}
}

func TestFindExtremeDays_CalendarGaps(t *testing.T) {
	// Friday, then Monday: three calendar days apart, so both new highs count.
	bars := []model.OHLCV{
		{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Close: 10},
		{Time: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), Close: 11},
		{Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Close: 12},
	}
	days := mustDays(t, bars)
	highs, _ := FindExtremeDays(days, ExtremeLookbackDays, 3)
	if len(highs) != 2 || !highs[1].Date().Equal(bars[1].Time) {
		t.Errorf("expected highs on Mar 1 and Mar 4, got %v", highs)
	}
}

func TestFindExtremeDays_WindowBoundaryInclusive(t *testing.T) {
	bars := []model.OHLCV{
		{Time: epoch, Close: 200},
		{Time: epoch.AddDate(0, 0, 180), Close: 150},
		{Time: epoch.AddDate(0, 0, 181), Close: 150},
	}
	days := mustDays(t, bars)
	highs, _ := FindExtremeDays(days, ExtremeLookbackDays, DefaultCooldownDays)
	if got := offsets(highs); !reflect.DeepEqual(got, []int{0, 181}) {
		t.Errorf("expected highs at [0 181], got %v", got)
	}
}

func TestFindExtremeDays_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	closes := []float64{100}
	for i := 1; i < 400; i++ {
		closes = append(closes, closes[i-1]*(1+(rng.Float64()-0.5)*0.06))
	}
	days := mustDays(t, dailyBars(closes...))
	h1, l1 := FindExtremeDays(days, ExtremeLookbackDays, DefaultCooldownDays)
	h2, l2 := FindExtremeDays(days, ExtremeLookbackDays, DefaultCooldownDays)
	if !reflect.DeepEqual(h1, h2) || !reflect.DeepEqual(l1, l2) {
		t.Error("repeated calls returned different results")
	}
}

func TestFindExtremeDays_AcceptedFlagsRespectWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, window := range []int{1, 2, 3, 5, 10} {
		closes := []float64{100}
		for i := 1; i < 500; i++ {
			closes = append(closes, closes[i-1]*(1+(rng.Float64()-0.48)*0.04))
		}
		days := mustDays(t, dailyBars(closes...))
		highs, lows := FindExtremeDays(days, ExtremeLookbackDays, window)
		for name, set := range map[string][]model.Day{"highs": highs, "lows": lows} {
			for i := 1; i < len(set); i++ {
				if gap := daysBetween(set[i-1].Date(), set[i].Date()); gap < window {
					t.Errorf("window %d %s: flags %d days apart", window, name, gap)
				}
			}
		}
	}
}

func TestRollingExtremes_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var bars []model.OHLCV
	date := epoch
	for i := 0; i < 300; i++ {
		date = date.AddDate(0, 0, 1+rng.Intn(4))
		bars = append(bars, model.OHLCV{Time: date, Close: float64(rng.Intn(50) + 1)})
	}
	days := mustDays(t, bars)
	maxes, mins := RollingExtremes(days, 30)

	for i, d := range days {
		wantMax, wantMin := math.Inf(-1), math.Inf(1)
		for j := 0; j <= i; j++ {
			if daysBetween(days[j].Date(), d.Date()) > 30 {
				continue
			}
			wantMax = math.Max(wantMax, days[j].Close)
			wantMin = math.Min(wantMin, days[j].Close)
		}
		if maxes[i] != wantMax || mins[i] != wantMin {
			t.Fatalf("day %d: expected max/min %v/%v, got %v/%v", i, wantMax, wantMin, maxes[i], mins[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	days := mustDays(t, dailyBars(100, 110, 99, 108.9))
	s := Summarize(days)
	if s.Sessions != 4 {
		t.Errorf("expected 4 sessions, got %d", s.Sessions)
	}
	if math.Abs(s.TotalReturn-0.089) > 1e-9 {
		t.Errorf("expected total return 0.089, got %g", s.TotalReturn)
	}
	if math.Abs(s.MaxGain-0.10) > 1e-9 || math.Abs(s.MaxLoss+0.10) > 1e-9 {
		t.Errorf("expected max gain/loss ±0.10, got %g/%g", s.MaxGain, s.MaxLoss)
	}
	if math.Abs(s.MeanChange-0.10/3) > 1e-9 {
		t.Errorf("expected mean change %g, got %g", 0.10/3, s.MeanChange)
	}
	if s.StdDevChange <= 0 || math.Abs(s.AnnualizedVol-s.StdDevChange*math.Sqrt(252)) > 1e-12 {
		t.Errorf("unexpected volatility: std=%g annual=%g", s.StdDevChange, s.AnnualizedVol)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(nil); s != (model.Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}
