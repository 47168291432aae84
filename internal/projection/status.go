// Package projection provides the read-only dashboard views over the
// ordered record sequence: latest status per system, open positions, and
// the recent-signals feed.
package projection

import (
	"strings"

	"trading-dashboard/internal/domain"
)

// LatestStatus keeps the chronologically last Status record per system.
// Records arrive sorted with ties in input order, so a plain overwrite
// implements last-wins.
func LatestStatus(records []*domain.TelemetryRecord) map[string]domain.StatusEntry {
	out := make(map[string]domain.StatusEntry)
	for _, r := range records {
		if r.Kind != domain.KindStatus {
			continue
		}
		out[r.SystemID] = domain.StatusEntry{
			SystemID:  r.SystemID,
			Value:     r.Value,
			Details:   r.Details,
			Running:   strings.EqualFold(r.Value, "running"),
			Timestamp: r.Timestamp,
		}
	}
	return out
}
