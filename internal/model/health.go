package model

import "time"

// ProbeStatus is the result of the most recent data source health probe.
type ProbeStatus struct {
	Source    string    `json:"source"`
	Symbol    string    `json:"symbol"`
	OK        bool      `json:"ok"`
	Bars      int       `json:"bars"`
	Error     string    `json:"error,omitempty"`
	Latency   string    `json:"latency"`
	CheckedAt time.Time `json:"checked_at"`
}
