package planner

import (
	"testing"

	"vocab_learn_backend/internal/model"
)

func TestDailyTaskCountBounds(t *testing.T) {
	trends := []model.SpeedTrend{model.SpeedFast, model.SpeedNormal, model.SpeedSlow}
	for _, trend := range trends {
		for _, accuracy := range []float64{0.2, 0.6, 0.95} {
			for _, days := range []int{1, 7, 30, 365} {
				for _, target := range []int{1, 100, 1000, 20000} {
					p := ProfileSnapshot{SpeedTrend: trend, AvgAccuracy: accuracy}
					got := DailyTaskCount(p, days, target)
					if got < MinDailyWords || got > MaxDailyWords {
						t.Fatalf("DailyTaskCount(%v, %d, %d) = %d, out of [%d,%d]",
							p, days, target, got, MinDailyWords, MaxDailyWords)
					}
				}
			}
		}
	}
}

func TestDailyTaskCountInvalidInputs(t *testing.T) {
	p := ProfileSnapshot{SpeedTrend: model.SpeedFast, AvgAccuracy: 0.9}
	if got := DailyTaskCount(p, 0, 100); got != MinDailyWords {
		t.Errorf("remainingDays=0 should return %d, got %d", MinDailyWords, got)
	}
	if got := DailyTaskCount(p, -1, 100); got != MinDailyWords {
		t.Errorf("negative remainingDays should return %d, got %d", MinDailyWords, got)
	}
	if got := DailyTaskCount(p, 30, 0); got != MinDailyWords {
		t.Errorf("targetWordCount=0 should return %d, got %d", MinDailyWords, got)
	}
}

func TestDailyTaskCountFastAtLeastSlow(t *testing.T) {
	for _, days := range []int{3, 10, 30, 90} {
		for _, target := range []int{50, 300, 900, 3000} {
			fast := DailyTaskCount(ProfileSnapshot{SpeedTrend: model.SpeedFast, AvgAccuracy: 0.8}, days, target)
			slow := DailyTaskCount(ProfileSnapshot{SpeedTrend: model.SpeedSlow, AvgAccuracy: 0.8}, days, target)
			if fast < slow {
				t.Fatalf("FAST profile got %d < SLOW profile %d (days=%d target=%d)", fast, slow, days, target)
			}
		}
	}
}

func TestDailyTaskCountAccuracyPenalty(t *testing.T) {
	// 900词30天基数30，低正确率打九折
	low := DailyTaskCount(ProfileSnapshot{SpeedTrend: model.SpeedNormal, AvgAccuracy: 0.5}, 30, 900)
	high := DailyTaskCount(ProfileSnapshot{SpeedTrend: model.SpeedNormal, AvgAccuracy: 0.8}, 30, 900)
	if low != 27 || high != 30 {
		t.Errorf("accuracy penalty: low=%d want 27, high=%d want 30", low, high)
	}
}

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		current int
		want    int
	}{
		{"low completion shrinks", 0.50, 30, 24},
		{"high completion grows", 0.95, 30, 33},
		{"in-band unchanged low edge", 0.60, 30, 30},
		{"in-band unchanged high edge", 0.90, 30, 30},
		{"in-band unchanged middle", 0.75, 42, 42},
		{"shrink reclamps to floor", 0.10, 10, 10},
		{"grow reclamps to ceiling", 0.99, 50, 50},
		{"out of range below is a no-op", 0.10, 5, 5},
		{"out of range above is a no-op", 0.99, 80, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustDifficulty(tt.rate, tt.current); got != tt.want {
				t.Errorf("AdjustDifficulty(%.2f, %d) = %d, want %d", tt.rate, tt.current, got, tt.want)
			}
		})
	}
}

func TestAdjustDifficultyDirection(t *testing.T) {
	for current := MinDailyWords + 3; current <= MaxDailyWords; current += 7 {
		if got := AdjustDifficulty(0.40, current); got >= current {
			t.Fatalf("rate<0.6 must decrease: %d -> %d", current, got)
		}
	}
	for current := MinDailyWords; current < MaxDailyWords-4; current += 7 {
		if got := AdjustDifficulty(0.95, current); got <= current {
			t.Fatalf("rate>0.9 must increase: %d -> %d", current, got)
		}
	}
}

func TestLearningPath(t *testing.T) {
	for _, goal := range []model.GoalType{model.GoalExam, model.GoalTravel, model.GoalBusiness, model.GoalDaily} {
		path := LearningPath(goal)
		if len(path.Groups) == 0 {
			t.Fatalf("goal %s produced empty path", goal)
		}
		if len(path.Groups) != len(path.Priorities) {
			t.Fatalf("goal %s: groups(%d) and priorities(%d) must be equal length",
				goal, len(path.Groups), len(path.Priorities))
		}
	}

	// 未知目标回退到默认路径
	unknown := LearningPath(model.GoalType("SPEAKING"))
	fallback := LearningPath(model.GoalDaily)
	if len(unknown.Groups) != len(fallback.Groups) || unknown.Groups[0] != fallback.Groups[0] {
		t.Errorf("unknown goal should fall back to the default path")
	}
}
