package domain

import "time"

// EquitySeries is the forward-filled, time-indexed equity view.
// Timeline, Total, and every PerSystem slice have equal length: one entry
// per distinct timestamp among Equity records, ascending.
type EquitySeries struct {
	Timeline  []time.Time          `json:"timeline"`
	PerSystem map[string][]float64 `json:"perSystem"`
	Total     []float64            `json:"total"`
}

// Len returns the number of timeline positions.
func (s *EquitySeries) Len() int {
	return len(s.Timeline)
}

// StatusEntry is the latest reported status of one system.
type StatusEntry struct {
	SystemID  string    `json:"systemId"`
	Value     string    `json:"value"`
	Details   string    `json:"details,omitempty"`
	Running   bool      `json:"running"`
	Timestamp time.Time `json:"timestamp"`
}

// Position is one open position keyed by (system, symbol).
type Position struct {
	SystemID  string    `json:"systemId"`
	Symbol    string    `json:"symbol"`
	Size      string    `json:"size"`
	Entry     string    `json:"entry"`
	Timestamp time.Time `json:"timestamp"`
}

// Signal is one entry of the recent-signals feed.
type Signal struct {
	Timestamp time.Time `json:"timestamp"`
	SystemID  string    `json:"systemId"`
	Value     string    `json:"value"`
	Details   string    `json:"details,omitempty"`
}
