package srs

import "testing"

func TestUpdateMasteryBounds(t *testing.T) {
	for mastery := 0; mastery <= 100; mastery++ {
		for _, correct := range []bool{true, false} {
			got := UpdateMastery(mastery, correct)
			if got < 0 || got > 100 {
				t.Fatalf("UpdateMastery(%d, %v) = %d, out of [0,100]", mastery, correct, got)
			}
			if correct && got < mastery {
				t.Fatalf("correct answer decreased mastery: %d -> %d", mastery, got)
			}
			if !correct && got > mastery {
				t.Fatalf("wrong answer increased mastery: %d -> %d", mastery, got)
			}
		}
	}
}

func TestUpdateMasteryDeltas(t *testing.T) {
	tests := []struct {
		current int
		correct bool
		want    int
	}{
		{0, true, 10},
		{95, true, 100},
		{100, true, 100},
		{10, false, 0},
		{5, false, 0},
		{0, false, 0},
		{50, true, 60},
		{50, false, 35},
	}
	for _, tt := range tests {
		if got := UpdateMastery(tt.current, tt.correct); got != tt.want {
			t.Errorf("UpdateMastery(%d, %v) = %d, want %d", tt.current, tt.correct, got, tt.want)
		}
	}
}

func TestDetermineStatusExhaustive(t *testing.T) {
	if DetermineStatus(0) != StatusForgotten {
		t.Errorf("mastery 0 should be FORGOTTEN")
	}
	for m := 1; m <= 79; m++ {
		if DetermineStatus(m) != StatusLearning {
			t.Fatalf("mastery %d should be LEARNING, got %s", m, DetermineStatus(m))
		}
	}
	for m := 80; m <= 100; m++ {
		if DetermineStatus(m) != StatusMastered {
			t.Fatalf("mastery %d should be MASTERED, got %s", m, DetermineStatus(m))
		}
	}
}

func TestGrowthFactorBands(t *testing.T) {
	tests := []struct {
		mastery int
		want    int
	}{
		{0, 2}, {19, 2},
		{20, 3}, {39, 3},
		{40, 4}, {59, 4},
		{60, 6}, {79, 6},
		{80, 8}, {100, 8},
	}
	for _, tt := range tests {
		if got := GrowthFactor(tt.mastery); got != tt.want {
			t.Errorf("GrowthFactor(%d) = %d, want %d", tt.mastery, got, tt.want)
		}
	}
}

func TestReviewIntervalHardReset(t *testing.T) {
	for _, wrong := range []int{3, 4, 10} {
		for _, mastery := range []int{0, 50, 100} {
			for _, count := range []int{0, 5, 100} {
				if got := ReviewInterval(mastery, count, wrong); got != 1 {
					t.Fatalf("ReviewInterval(%d, %d, %d) = %d, want 1", mastery, count, wrong, got)
				}
			}
		}
	}
}

func TestReviewIntervalMonotonicInMastery(t *testing.T) {
	for count := 0; count <= 12; count++ {
		prev := 0
		for mastery := 0; mastery <= 100; mastery++ {
			got := ReviewInterval(mastery, count, 0)
			if got <= 0 {
				t.Fatalf("interval must be positive, got %d", got)
			}
			if got > MaxIntervalHours {
				t.Fatalf("interval %d exceeds cap %d", got, MaxIntervalHours)
			}
			if got < prev {
				t.Fatalf("interval decreased with mastery: mastery=%d count=%d %d -> %d", mastery, count, prev, got)
			}
			prev = got
		}
	}
}

func TestReviewIntervalMonotonicInReviewCount(t *testing.T) {
	for _, mastery := range []int{0, 15, 25, 45, 65, 85, 100} {
		prev := 0
		for count := 0; count <= 20; count++ {
			got := ReviewInterval(mastery, count, 0)
			if got < prev {
				t.Fatalf("interval decreased with reviewCount: mastery=%d count=%d %d -> %d", mastery, count, prev, got)
			}
			prev = got
		}
	}
}

func TestReviewIntervalValues(t *testing.T) {
	tests := []struct {
		mastery, count, want int
	}{
		{10, 0, 1},    // 2^0
		{10, 1, 2},    // 2^1
		{10, 3, 8},    // 2^3
		{30, 2, 9},    // 3^2
		{50, 3, 64},   // 4^3
		{70, 3, 216},  // 6^3
		{90, 2, 64},   // 8^2
		{90, 4, 720},  // 8^4=4096 capped
		{10, 30, 720}, // cap
	}
	for _, tt := range tests {
		if got := ReviewInterval(tt.mastery, tt.count, 0); got != tt.want {
			t.Errorf("ReviewInterval(%d, %d, 0) = %d, want %d", tt.mastery, tt.count, got, tt.want)
		}
	}
}

// 模拟完整的复习流程：初始记录经过若干次答题后的状态演进
func TestReviewLifecycle(t *testing.T) {
	mastery := 0
	status := DetermineStatus(mastery)
	if status != StatusForgotten {
		t.Fatalf("new record with mastery 0 should map to FORGOTTEN status value, got %s", status)
	}

	// 第一次答对
	mastery = UpdateMastery(mastery, true)
	if mastery != 10 {
		t.Fatalf("after first correct review mastery = %d, want 10", mastery)
	}
	if DetermineStatus(mastery) != StatusLearning {
		t.Fatalf("mastery 10 should be LEARNING")
	}
	if got := ReviewInterval(mastery, 1, 0); got != 2 {
		t.Fatalf("interval after first review = %d, want 2", got)
	}

	// 再答对两次，掌握度到30，进入第二档增长因子
	mastery = UpdateMastery(mastery, true)
	mastery = UpdateMastery(mastery, true)
	if mastery != 30 {
		t.Fatalf("after three correct reviews mastery = %d, want 30", mastery)
	}
	if DetermineStatus(mastery) != StatusLearning {
		t.Fatalf("mastery 30 should still be LEARNING")
	}
	if got := ReviewInterval(mastery, 3, 0); got != 27 {
		t.Fatalf("interval = %d, want 3^3 = 27", got)
	}

	// 连续三次答错，间隔硬重置
	mastery = UpdateMastery(mastery, false)
	mastery = UpdateMastery(mastery, false)
	mastery = UpdateMastery(mastery, false)
	if got := ReviewInterval(mastery, 6, 3); got != 1 {
		t.Fatalf("interval after 3 consecutive wrong = %d, want 1", got)
	}
}
