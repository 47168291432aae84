package domain

import "time"

// Snapshot is the complete dashboard state produced by one poll cycle.
// It is built fresh every cycle and replaced whole; nothing in it is
// mutated after publication.
type Snapshot struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	RecordCount int                    `json:"recordCount"`
	Status      map[string]StatusEntry `json:"status"`
	Equity      *EquitySeries          `json:"equity"`
	Positions   []Position             `json:"positions"`
	Signals     []Signal               `json:"signals"`

	// Chart holds the rendered equity-curve PNG, nil when there is no
	// equity data. Served as an image, never inlined in JSON.
	Chart []byte `json:"-"`
}
