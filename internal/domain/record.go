package domain

import (
	"math"
	"strconv"
	"time"
)

// Kind tags the category of a telemetry record. The set is open: rows may
// carry any tag, and unrecognized tags simply match no projection.
type Kind string

const (
	KindStatus   Kind = "Status"
	KindEquity   Kind = "Equity"
	KindPosition Kind = "Position"
	KindSignal   Kind = "Signal"
)

// Recognized reports whether the kind is one of the four known tags.
func (k Kind) Recognized() bool {
	switch k {
	case KindStatus, KindEquity, KindPosition, KindSignal:
		return true
	}
	return false
}

// UnknownSystem is substituted when a row's system identifier is empty.
const UnknownSystem = "Unknown"

// TelemetryRecord is one validated row of the published telemetry sheet.
// Column order: timestamp, systemId, kind, value, detail...
// Records are immutable after construction; projections only read them.
type TelemetryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	SystemID  string    `json:"systemId"`
	Kind      Kind      `json:"kind"`
	Value     string    `json:"value"`
	Details   string    `json:"details"`
}

// NumericValue parses the record's value field as a finite float.
// Returns false for empty, unparsable, or non-finite values.
func (r *TelemetryRecord) NumericValue() (float64, bool) {
	if r.Value == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(r.Value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
