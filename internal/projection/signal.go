package projection

import "trading-dashboard/internal/domain"

// DefaultSignalCount is the feed length when the caller passes n <= 0.
const DefaultSignalCount = 10

// LatestSignals returns the chronologically last n Signal records,
// newest-first.
func LatestSignals(records []*domain.TelemetryRecord, n int) []domain.Signal {
	if n <= 0 {
		n = DefaultSignalCount
	}

	var signals []*domain.TelemetryRecord
	for _, r := range records {
		if r.Kind == domain.KindSignal {
			signals = append(signals, r)
		}
	}
	if len(signals) > n {
		signals = signals[len(signals)-n:]
	}

	out := make([]domain.Signal, 0, len(signals))
	for i := len(signals) - 1; i >= 0; i-- {
		r := signals[i]
		out = append(out, domain.Signal{
			Timestamp: r.Timestamp,
			SystemID:  r.SystemID,
			Value:     r.Value,
			Details:   r.Details,
		})
	}
	return out
}
