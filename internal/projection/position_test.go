package projection

import (
	"testing"
	"time"

	"trading-dashboard/internal/domain"
)

func positionRecord(ts time.Time, systemID, value, details string) *domain.TelemetryRecord {
	return &domain.TelemetryRecord{
		Timestamp: ts,
		SystemID:  systemID,
		Kind:      domain.KindPosition,
		Value:     value,
		Details:   details,
	}
}

func TestOpenPositions_OpenAndClosed(t *testing.T) {
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "0.5", "Symbol:BTCUSDT,Entry:34000"),
		positionRecord(t1, "Sys2", "0", "Symbol:ETHUSDT,Entry:1800"),
	})
	if len(positions) != 1 {
		t.Fatalf("expected 1 open position, got %d", len(positions))
	}
	p := positions[0]
	if p.SystemID != "Sys1" || p.Symbol != "BTCUSDT" || p.Size != "0.5" || p.Entry != "34000" {
		t.Errorf("unexpected position %+v", p)
	}
}

func TestOpenPositions_LastWinsPerKey(t *testing.T) {
	// The later flat record closes the position.
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "0.5", "Symbol:BTCUSDT,Entry:34000"),
		positionRecord(t2, "Sys1", "0", "Symbol:BTCUSDT,Entry:34000"),
	})
	if len(positions) != 0 {
		t.Errorf("expected no open positions, got %d", len(positions))
	}
}

func TestOpenPositions_ReopenedPosition(t *testing.T) {
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "0", "Symbol:BTCUSDT,Entry:30000"),
		positionRecord(t2, "Sys1", "1.5", "Symbol:BTCUSDT,Entry:35000"),
	})
	if len(positions) != 1 {
		t.Fatalf("expected 1 open position, got %d", len(positions))
	}
	if positions[0].Entry != "35000" {
		t.Errorf("expected latest entry 35000, got %s", positions[0].Entry)
	}
}

func TestOpenPositions_MissingSymbolExcluded(t *testing.T) {
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "0.5", "Entry:34000"),
		positionRecord(t1, "Sys1", "0.5", ""),
	})
	if len(positions) != 0 {
		t.Errorf("rows without a symbol cannot be keyed, got %d", len(positions))
	}
}

func TestOpenPositions_KeysCaseInsensitive(t *testing.T) {
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "2", "symbol:SOLUSDT, entry:140"),
	})
	if len(positions) != 1 {
		t.Fatalf("expected 1 open position, got %d", len(positions))
	}
	if positions[0].Symbol != "SOLUSDT" || positions[0].Entry != "140" {
		t.Errorf("case-insensitive keys not honored: %+v", positions[0])
	}
}

func TestOpenPositions_DistinctSymbolsPerSystem(t *testing.T) {
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "0.5", "Symbol:BTCUSDT,Entry:34000"),
		positionRecord(t1, "Sys1", "3", "Symbol:ETHUSDT,Entry:1800"),
		positionRecord(t1, "Sys2", "1", "Symbol:BTCUSDT,Entry:34100"),
	})
	if len(positions) != 3 {
		t.Fatalf("expected 3 open positions, got %d", len(positions))
	}
	// First-appearance order.
	if positions[0].Symbol != "BTCUSDT" || positions[0].SystemID != "Sys1" {
		t.Errorf("unexpected order: %+v", positions)
	}
}

func TestOpenPositions_UnparsableValueExcluded(t *testing.T) {
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "", "Symbol:BTCUSDT,Entry:34000"),
	})
	if len(positions) != 0 {
		t.Errorf("non-numeric size is not open, got %d", len(positions))
	}
}

func TestOpenPositions_NegativeSizeIsOpen(t *testing.T) {
	// Short positions are open too.
	positions := OpenPositions([]*domain.TelemetryRecord{
		positionRecord(t1, "Sys1", "-0.5", "Symbol:BTCUSDT,Entry:34000"),
	})
	if len(positions) != 1 {
		t.Errorf("expected short position to count as open, got %d", len(positions))
	}
}
