package service

import (
	"testing"
	"time"

	"vocab_learn_backend/internal/model"
)

func recordAt(next time.Time, mastery int) model.MemoryRecord {
	return model.MemoryRecord{NextReviewAt: &next, MasteryLevel: mastery}
}

func TestSortDueRecordsOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	records := []model.MemoryRecord{
		recordAt(base.Add(2*time.Hour), 50),
		recordAt(base, 70),
		recordAt(base.Add(time.Hour), 10),
		recordAt(base, 30),
	}
	sortDueRecords(records)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.NextReviewAt.After(*cur.NextReviewAt) {
			t.Fatalf("next review times not non-decreasing at index %d", i)
		}
		if prev.NextReviewAt.Equal(*cur.NextReviewAt) && prev.MasteryLevel > cur.MasteryLevel {
			t.Fatalf("mastery levels not non-decreasing for equal timestamps at index %d", i)
		}
	}

	if records[0].MasteryLevel != 30 {
		t.Errorf("expected weakest record first among equal timestamps, got mastery %d", records[0].MasteryLevel)
	}
}

func TestSortDueRecordsEmptyAndSingle(t *testing.T) {
	var empty []model.MemoryRecord
	sortDueRecords(empty)
	if len(empty) != 0 {
		t.Fatal("empty list must stay empty")
	}

	single := []model.MemoryRecord{recordAt(time.Now(), 40)}
	sortDueRecords(single)
	if len(single) != 1 || single[0].MasteryLevel != 40 {
		t.Fatal("single-element list must be unchanged")
	}
}

func TestSortDueRecordsNilTimestampsLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	records := []model.MemoryRecord{
		{MasteryLevel: 10},
		recordAt(base, 90),
	}
	sortDueRecords(records)

	if records[0].NextReviewAt == nil {
		t.Error("records without a next review time must sort after dated ones")
	}
}

func TestFilterDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []model.MemoryRecord{
		recordAt(now.Add(-time.Hour), 10),
		recordAt(now, 20),
		recordAt(now.Add(time.Hour), 30),
		{MasteryLevel: 40}, // 无到期时间
	}

	due := filterDue(records, now)
	if len(due) != 2 {
		t.Fatalf("expected 2 due records, got %d", len(due))
	}
	for _, r := range due {
		if r.NextReviewAt.After(now) {
			t.Errorf("future record leaked into due list: %v", r.NextReviewAt)
		}
	}
}

func TestFilterDueAllFuture(t *testing.T) {
	now := time.Now()
	records := []model.MemoryRecord{
		recordAt(now.Add(time.Hour), 10),
		recordAt(now.Add(2*time.Hour), 20),
	}
	if due := filterDue(records, now); len(due) != 0 {
		t.Fatalf("all-future list must filter to empty, got %d", len(due))
	}
}
