package ingestion

import (
	"sort"
	"strings"

	"trading-dashboard/internal/domain"
)

// BuildDataset parses raw CSV text into a chronologically ordered record
// sequence. The first line is always treated as the header and dropped;
// blank lines are skipped; malformed rows are counted and discarded.
// The sort is stable, so records sharing a timestamp keep input order.
func BuildDataset(csvText string) ([]*domain.TelemetryRecord, int) {
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) <= 1 {
		return nil, 0
	}

	var records []*domain.TelemetryRecord
	rejected := 0
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := NormalizeRow(TokenizeLine(line))
		if !ok {
			rejected++
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, rejected
}
