package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/model"

	"github.com/robfig/cron/v3"
)

// probeDays is how much history a probe asks for, ending at the configured range end.
const probeDays = 14

// Scheduler runs periodic data source probes and keeps the latest result.
type Scheduler struct {
	Cron    *cron.Cron
	Fetcher collector.Fetcher
	Symbol  string
	End     time.Time
	Timeout time.Duration
	Ctx     context.Context

	mu     sync.Mutex
	last   model.ProbeStatus
	probed bool
}

// NewScheduler creates a new Scheduler probing symbol up to end.
func NewScheduler(ctx context.Context, fetcher collector.Fetcher, symbol string, end time.Time) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Fetcher: fetcher,
		Symbol:  symbol,
		End:     end,
		Timeout: 30 * time.Second,
		Ctx:     ctx,
	}
}

// Register adds the probe task on the given cron spec (with seconds field).
func (s *Scheduler) Register(probeCron string) error {
	if _, err := s.Cron.AddFunc(probeCron, s.probeTask); err != nil {
		return fmt.Errorf("register probe task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running probe to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunProbeNow executes the probe immediately and returns its result.
func (s *Scheduler) RunProbeNow() model.ProbeStatus {
	return s.probe()
}

// LastProbe returns the latest probe result; ok is false before the first probe.
func (s *Scheduler) LastProbe() (status model.ProbeStatus, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.probed
}

func (s *Scheduler) probeTask() {
	s.probe()
}

func (s *Scheduler) probe() model.ProbeStatus {
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	began := time.Now()
	bars, err := s.Fetcher.FetchDailyRange(ctx, s.Symbol, s.End.AddDate(0, 0, -probeDays), s.End)
	status := model.ProbeStatus{
		Source:    s.Fetcher.Name(),
		Symbol:    s.Symbol,
		Bars:      len(bars),
		Latency:   time.Since(began).Round(time.Millisecond).String(),
		CheckedAt: time.Now(),
	}
	switch {
	case err != nil:
		status.Error = err.Error()
		log.Printf("[WARN] probe %s via %s failed: %v", s.Symbol, status.Source, err)
	case len(bars) == 0:
		status.Error = "no data returned"
		log.Printf("[WARN] probe %s via %s returned no data", s.Symbol, status.Source)
	default:
		status.OK = true
		log.Printf("[INFO] probe %s via %s ok: %d bars in %s", s.Symbol, status.Source, len(bars), status.Latency)
	}

	s.mu.Lock()
	s.last = status
	s.probed = true
	s.mu.Unlock()
	return status
}
