package service

import (
	"math"
	"testing"
	"time"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/srs"
)

func at(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestTimePreferencesBuckets(t *testing.T) {
	times := []time.Time{
		at(5), at(8), at(11), // morning
		at(12), at(17), // afternoon
		at(18), at(23), at(0), at(4), // evening
	}

	prefs := timePreferences(times)

	if math.Abs(prefs.Morning-3.0/9.0) > 1e-9 {
		t.Errorf("morning = %v, want %v", prefs.Morning, 3.0/9.0)
	}
	if math.Abs(prefs.Afternoon-2.0/9.0) > 1e-9 {
		t.Errorf("afternoon = %v, want %v", prefs.Afternoon, 2.0/9.0)
	}
	if math.Abs(prefs.Evening-4.0/9.0) > 1e-9 {
		t.Errorf("evening = %v, want %v", prefs.Evening, 4.0/9.0)
	}

	sum := prefs.Morning + prefs.Afternoon + prefs.Evening
	if math.Abs(sum-1.0) > 0.01 {
		t.Errorf("bucket fractions sum to %v, want 1.0", sum)
	}
}

func TestTimePreferencesEmpty(t *testing.T) {
	prefs := timePreferences(nil)
	if prefs.Morning != 0 || prefs.Afternoon != 0 || prefs.Evening != 0 {
		t.Fatalf("empty input must yield all-zero buckets, got %+v", prefs)
	}
}

func TestWeakAreasClassification(t *testing.T) {
	rows := []repository.CategoryStatus{
		// 遗忘过半 -> weak
		{Category: "travel", Status: srs.StatusForgotten},
		{Category: "travel", Status: srs.StatusForgotten},
		{Category: "travel", Status: srs.StatusForgotten},
		{Category: "travel", Status: srs.StatusMastered},
		{Category: "travel", Status: srs.StatusLearning},
		// 学习中占7成 -> reinforce
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusLearning},
		{Category: "exam", Status: srs.StatusMastered},
		{Category: "exam", Status: srs.StatusMastered},
		{Category: "exam", Status: srs.StatusForgotten},
		// 掌握良好 -> 不出现
		{Category: "business", Status: srs.StatusMastered},
		{Category: "business", Status: srs.StatusMastered},
	}

	areas := weakAreas(rows)

	byCategory := make(map[string]model.WeakArea)
	for _, area := range areas {
		byCategory[area.Category] = area
	}

	travel, ok := byCategory["travel"]
	if !ok || travel.Kind != model.WeakKindForgotten {
		t.Errorf("travel should be classified %q, got %+v", model.WeakKindForgotten, travel)
	}
	if math.Abs(travel.Rate-0.6) > 1e-9 {
		t.Errorf("travel rate = %v, want 0.6", travel.Rate)
	}

	exam, ok := byCategory["exam"]
	if !ok || exam.Kind != model.WeakKindReinforce {
		t.Errorf("exam should be classified %q, got %+v", model.WeakKindReinforce, exam)
	}

	if _, ok := byCategory["business"]; ok {
		t.Error("well-mastered category must not appear as a weak area")
	}
}

func TestWeakAreasBoundaryNotIncluded(t *testing.T) {
	// 恰好40%遗忘、恰好60%学习中都不越过阈值
	rows := []repository.CategoryStatus{
		{Category: "daily", Status: srs.StatusForgotten},
		{Category: "daily", Status: srs.StatusForgotten},
		{Category: "daily", Status: srs.StatusLearning},
		{Category: "daily", Status: srs.StatusLearning},
		{Category: "daily", Status: srs.StatusLearning},
	}
	if areas := weakAreas(rows); len(areas) != 0 {
		t.Fatalf("rates at the threshold must not classify, got %+v", areas)
	}
}

func TestWeakAreasEmpty(t *testing.T) {
	if areas := weakAreas(nil); len(areas) != 0 {
		t.Fatalf("empty input must yield empty list, got %+v", areas)
	}
}

func logOn(day time.Time, wordID uint, correct bool) model.ReviewLog {
	return model.ReviewLog{WordID: wordID, Correct: correct, ReviewedAt: day}
}

func TestLearningSpeed(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	logs := []model.ReviewLog{
		logOn(day1, 1, true),
		logOn(day1.Add(time.Hour), 2, true),
		logOn(day1.Add(2*time.Hour), 3, false),
		logOn(day2, 1, true),
	}

	got := learningSpeed(logs)
	if math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("learningSpeed = %v, want 2.0 (4 records over 2 active days)", got)
	}

	if got := learningSpeed(nil); got != 0 {
		t.Fatalf("empty input must yield 0, got %v", got)
	}
}

func TestSpeedTrend(t *testing.T) {
	tests := []struct {
		avg  float64
		want model.SpeedTrend
	}{
		{0, model.SpeedNormal},
		{5, model.SpeedSlow},
		{9.9, model.SpeedSlow},
		{10, model.SpeedNormal},
		{29.9, model.SpeedNormal},
		{30, model.SpeedFast},
		{100, model.SpeedFast},
	}
	for _, tt := range tests {
		if got := speedTrend(tt.avg); got != tt.want {
			t.Errorf("speedTrend(%v) = %v, want %v", tt.avg, got, tt.want)
		}
	}
}

func TestOverallAccuracy(t *testing.T) {
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	logs := []model.ReviewLog{
		logOn(day, 1, true),
		logOn(day, 2, true),
		logOn(day, 3, false),
		logOn(day, 4, false),
	}
	if got := overallAccuracy(logs); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("overallAccuracy = %v, want 0.5", got)
	}
	if got := overallAccuracy(nil); got != 0 {
		t.Fatalf("empty input must yield 0, got %v", got)
	}
}

func TestProgressCurveShapeAndMonotonicity(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	days := 7
	start := now.AddDate(0, 0, -(days - 1))

	var logs []model.ReviewLog
	// 第1天接触两个词，第3天把词1连续答对到掌握，第5天答错一次
	logs = append(logs,
		logOn(start.Add(9*time.Hour), 1, true),
		logOn(start.Add(10*time.Hour), 2, true),
	)
	day3 := start.AddDate(0, 0, 2)
	for i := 0; i < 8; i++ {
		logs = append(logs, logOn(day3.Add(time.Duration(i)*time.Minute), 1, true))
	}
	logs = append(logs, logOn(start.AddDate(0, 0, 4), 2, false))

	points := progressCurve(logs, days, now)

	if len(points) != days {
		t.Fatalf("expected exactly %d points, got %d", days, len(points))
	}

	for i := 1; i < len(points); i++ {
		if points[i].CumulativeWords < points[i-1].CumulativeWords {
			t.Errorf("cumulative words decreased on day %d", i)
		}
		if points[i].MasteredWords < points[i-1].MasteredWords {
			t.Errorf("mastered words decreased on day %d", i)
		}
	}

	for i, p := range points {
		if p.Accuracy < 0 || p.Accuracy > 1 {
			t.Errorf("accuracy out of [0,1] on day %d: %v", i, p.Accuracy)
		}
	}

	if points[0].CumulativeWords != 2 {
		t.Errorf("day 1 cumulative words = %d, want 2", points[0].CumulativeWords)
	}
	if points[1].MasteredWords != 0 {
		t.Errorf("day 2 mastered words = %d, want 0", points[1].MasteredWords)
	}
	// 第3天词1累计9次答对，掌握度早已到顶
	if points[2].MasteredWords != 1 {
		t.Errorf("day 3 mastered words = %d, want 1", points[2].MasteredWords)
	}
	// 第5天词2答错不会回退掌握计数
	if points[4].MasteredWords != 1 {
		t.Errorf("day 5 mastered words = %d, want 1", points[4].MasteredWords)
	}
}

func TestProgressCurveEmptyLogs(t *testing.T) {
	points := progressCurve(nil, 5, time.Now())
	if len(points) != 5 {
		t.Fatalf("expected 5 points for empty history, got %d", len(points))
	}
	for i, p := range points {
		if p.CumulativeWords != 0 || p.MasteredWords != 0 || p.Accuracy != 0 {
			t.Errorf("day %d must be all-zero for empty history, got %+v", i, p)
		}
	}
}
