package model

import (
	"testing"
	"time"
)

func TestAdjustmentHistoryPushNewestFirst(t *testing.T) {
	var history AdjustmentHistory

	first := PlanAdjustment{AdjustedAt: time.Now(), OldCount: 20, NewCount: 16}
	second := PlanAdjustment{AdjustedAt: time.Now(), OldCount: 16, NewCount: 18}

	history.Push(first)
	history.Push(second)

	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].NewCount != 18 {
		t.Errorf("newest entry must be first, got NewCount=%d", history[0].NewCount)
	}
	if history[1].NewCount != 16 {
		t.Errorf("older entry must follow, got NewCount=%d", history[1].NewCount)
	}
}

func TestAdjustmentHistoryPushCapped(t *testing.T) {
	var history AdjustmentHistory
	for i := 0; i < MaxAdjustmentHistory+5; i++ {
		history.Push(PlanAdjustment{NewCount: i})
	}

	if len(history) != MaxAdjustmentHistory {
		t.Fatalf("history must cap at %d entries, got %d", MaxAdjustmentHistory, len(history))
	}
	if history[0].NewCount != MaxAdjustmentHistory+4 {
		t.Errorf("newest entry must survive the cap, got NewCount=%d", history[0].NewCount)
	}
	// 最旧的5条被挤出
	if history[len(history)-1].NewCount != 5 {
		t.Errorf("oldest surviving entry should be 5, got %d", history[len(history)-1].NewCount)
	}
}

func TestAdjustmentHistoryRoundTrip(t *testing.T) {
	history := AdjustmentHistory{
		{CompletionRate: 0.5, OldCount: 30, NewCount: 24, Reason: "low completion"},
	}

	value, err := history.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned AdjustmentHistory
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 1 || scanned[0].NewCount != 24 {
		t.Fatalf("round trip lost data: %+v", scanned)
	}
}

func TestAdjustmentHistoryScanNil(t *testing.T) {
	var history AdjustmentHistory
	if err := history.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if history == nil || len(history) != 0 {
		t.Fatal("nil column must scan to an empty history")
	}
}
