package projection

import (
	"strings"

	"trading-dashboard/internal/domain"
)

type positionKey struct {
	systemID string
	symbol   string
}

// OpenPositions projects Position records into the open-positions table.
// The details micro-format ("Symbol:BTCUSDT,Entry:34000") supplies the
// symbol and entry; keys match case-insensitively. Rows without a symbol
// cannot be keyed and are excluded. Keyed by (system, symbol), last-wins,
// and a position is open iff its value is a finite non-zero number.
// Output order is first-appearance order of each key.
func OpenPositions(records []*domain.TelemetryRecord) []domain.Position {
	latest := make(map[positionKey]*domain.TelemetryRecord)
	entries := make(map[positionKey]string)
	var order []positionKey

	for _, r := range records {
		if r.Kind != domain.KindPosition {
			continue
		}
		kv := parseDetails(r.Details)
		symbol := kv["symbol"]
		if symbol == "" {
			continue
		}
		key := positionKey{systemID: r.SystemID, symbol: symbol}
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = r
		entries[key] = kv["entry"]
	}

	var out []domain.Position
	for _, key := range order {
		r := latest[key]
		if v, ok := r.NumericValue(); !ok || v == 0 {
			continue
		}
		out = append(out, domain.Position{
			SystemID:  key.systemID,
			Symbol:    key.symbol,
			Size:      r.Value,
			Entry:     entries[key],
			Timestamp: r.Timestamp,
		})
	}
	return out
}

// parseDetails splits a "key:value,key:value" details string into a map
// with lowercased keys. Parts without a colon are ignored.
func parseDetails(details string) map[string]string {
	kv := make(map[string]string)
	for _, part := range strings.Split(details, ",") {
		part = strings.TrimSpace(part)
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		kv[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return kv
}
