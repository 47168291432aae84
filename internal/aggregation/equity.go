// Package aggregation reconstructs the per-system equity curves from the
// ordered record sequence. Systems report asynchronously, so each curve is
// forward-filled onto the union of observed timestamps and a total curve
// is derived per timeline position.
package aggregation

import (
	"sort"
	"time"

	"trading-dashboard/internal/domain"
)

// AggregateEquity builds the forward-filled equity series from records
// already sorted ascending by timestamp (ties in input order).
//
// For each distinct timestamp among Equity records, ascending:
//   - apply every update carrying exactly that timestamp to its system's
//     running value, but only when the value parses finite; a malformed
//     value leaves the running value unchanged rather than zeroing it
//   - snapshot every system's running value and the sum of all of them
//
// Running values start at 0 for every observed system.
func AggregateEquity(records []*domain.TelemetryRecord) *domain.EquitySeries {
	series := &domain.EquitySeries{PerSystem: make(map[string][]float64)}

	var updates []*domain.TelemetryRecord
	stamps := make(map[int64]time.Time)
	for _, r := range records {
		if r.Kind != domain.KindEquity {
			continue
		}
		updates = append(updates, r)
		stamps[r.Timestamp.UnixNano()] = r.Timestamp
		if _, ok := series.PerSystem[r.SystemID]; !ok {
			series.PerSystem[r.SystemID] = nil
		}
	}
	if len(updates) == 0 {
		return series
	}

	keys := make([]int64, 0, len(stamps))
	for k := range stamps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	running := make(map[string]float64, len(series.PerSystem))
	series.Timeline = make([]time.Time, 0, len(keys))
	series.Total = make([]float64, 0, len(keys))

	next := 0
	for _, key := range keys {
		for next < len(updates) && updates[next].Timestamp.UnixNano() == key {
			if v, ok := updates[next].NumericValue(); ok {
				running[updates[next].SystemID] = v
			}
			next++
		}

		series.Timeline = append(series.Timeline, stamps[key])
		total := 0.0
		for id := range series.PerSystem {
			v := running[id]
			series.PerSystem[id] = append(series.PerSystem[id], v)
			total += v
		}
		series.Total = append(series.Total, total)
	}
	return series
}
