package ingestion

import (
	"strings"
	"time"

	"trading-dashboard/internal/domain"
)

// timestampLayouts are tried in order, all interpreted as UTC. RFC 3339
// first, then the datetime shapes spreadsheet exports produce.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// NormalizeRow maps one tokenized field sequence into a TelemetryRecord.
// Returns false for routine malformed rows (fewer than 4 fields, or an
// unparsable timestamp); nothing row-level is ever an error.
func NormalizeRow(fields []string) (*domain.TelemetryRecord, bool) {
	if len(fields) < 4 {
		return nil, false
	}

	ts, ok := parseTimestamp(strings.TrimSpace(fields[0]))
	if !ok {
		return nil, false
	}

	systemID := strings.TrimSpace(fields[1])
	if systemID == "" {
		systemID = domain.UnknownSystem
	}

	kind := domain.Kind(strings.TrimSpace(fields[2]))

	value := strings.TrimSpace(fields[3])
	if kind == domain.KindEquity || kind == domain.KindPosition {
		// Accepted even when sanitization yields "": status-style consumers
		// never read it and numeric consumers check finiteness themselves.
		value = SanitizeNumeric(value)
	}

	var details string
	if len(fields) > 4 {
		details = strings.TrimSpace(strings.Join(fields[4:], ","))
	}

	return &domain.TelemetryRecord{
		Timestamp: ts,
		SystemID:  systemID,
		Kind:      kind,
		Value:     value,
		Details:   details,
	}, true
}

// SanitizeNumeric strips thousands-separator commas and extracts the
// longest prefix matching an optional minus sign, digits, and an optional
// decimal point with trailing digits. No such prefix yields "".
func SanitizeNumeric(s string) string {
	s = strings.ReplaceAll(s, ",", "")

	i, n := 0, len(s)
	if i < n && s[i] == '-' {
		i++
	}
	digitsStart := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return ""
	}
	end := i
	if i < n && s[i] == '.' {
		j := i + 1
		for j < n && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i+1 {
			end = j
		}
	}
	return s[:end]
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
