package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"vocab_learn_backend/internal/cache"
	"vocab_learn_backend/internal/model"
)

// memStore 内存缓存桩
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(ctx context.Context, key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	s.data[key] = value
	return true
}

func (s *memStore) Delete(ctx context.Context, key string) bool {
	delete(s.data, key)
	return true
}

func TestTaskCompletionRateWeighted(t *testing.T) {
	tasks := []model.DailyTask{
		{TotalItems: 20, CompletedItems: 20},
		{TotalItems: 30, CompletedItems: 15},
		{TotalItems: 50, CompletedItems: 0},
	}

	got := taskCompletionRate(tasks)
	want := 35.0 / 100.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("taskCompletionRate = %v, want %v", got, want)
	}
}

func TestTaskCompletionRateBounds(t *testing.T) {
	all := []model.DailyTask{{TotalItems: 10, CompletedItems: 10}}
	if got := taskCompletionRate(all); got != 1 {
		t.Errorf("fully completed window should be 1, got %v", got)
	}

	none := []model.DailyTask{{TotalItems: 10, CompletedItems: 0}}
	if got := taskCompletionRate(none); got != 0 {
		t.Errorf("untouched window should be 0, got %v", got)
	}

	zeroItems := []model.DailyTask{{TotalItems: 0, CompletedItems: 0}}
	if got := taskCompletionRate(zeroItems); got != 1 {
		t.Errorf("zero-item window should count as complete, got %v", got)
	}
}

func taskTypes(tasks []*model.DailyTask) map[model.TaskType]int {
	types := make(map[model.TaskType]int)
	for _, task := range tasks {
		types[task.TaskType] = task.TotalItems
	}
	return types
}

func TestBuildDailyTasksFullComposition(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tasks := buildDailyTasks(1, 42, day, 20, 15, 120, true)

	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	types := taskTypes(tasks)
	if types[model.TaskVocabulary] != 15 {
		t.Errorf("vocabulary items = %d, want 15 (unseen pool)", types[model.TaskVocabulary])
	}
	if types[model.TaskReview] != 100 {
		t.Errorf("review items = %d, want cap 100", types[model.TaskReview])
	}
	if types[model.TaskWeakArea] != 10 {
		t.Errorf("weak-area items = %d, want half the daily count", types[model.TaskWeakArea])
	}
}

func TestBuildDailyTasksVocabularyFallback(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tasks := buildDailyTasks(1, 42, day, 20, 0, 0, false)

	if len(tasks) != 1 {
		t.Fatalf("no due words and no weak areas should yield only the vocabulary task, got %d", len(tasks))
	}
	if tasks[0].TotalItems != 20 {
		t.Errorf("exhausted word pool must fall back to the daily count, got %d", tasks[0].TotalItems)
	}
}

func TestBuildDailyTasksWeakAreaMinimum(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tasks := buildDailyTasks(1, 42, day, 1, 1, 0, true)

	types := taskTypes(tasks)
	if types[model.TaskWeakArea] != 1 {
		t.Errorf("weak-area task must carry at least 1 item, got %d", types[model.TaskWeakArea])
	}
}

func TestDailyTaskBatchRetryKeepsAllTypes(t *testing.T) {
	layer := cache.NewLayer(newMemStore())
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	built := buildDailyTasks(1, 42, day, 20, 15, 30, true)

	// 第一次整批写入失败并回滚，重试后三类任务必须全部落库
	var created []model.DailyTask
	attempts := 0
	err := layer.PersistWithRetry(func() error {
		attempts++
		if attempts == 1 {
			created = nil
			return errors.New("deadlock")
		}
		for _, task := range built {
			created = append(created, *task)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry should recover from a transient batch failure: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}

	seen := make(map[model.TaskType]bool)
	for _, task := range created {
		seen[task.TaskType] = true
	}
	for _, want := range []model.TaskType{model.TaskVocabulary, model.TaskReview, model.TaskWeakArea} {
		if !seen[want] {
			t.Errorf("task type %s missing after retried batch persist", want)
		}
	}
}

func TestPlanSnapshotTracksRefreshedCompletionRate(t *testing.T) {
	store := newMemStore()
	layer := cache.NewLayer(store)
	ctx := context.Background()
	userID := uint(42)
	key := cache.PlanKey(userID)

	// 缓存里还留着上一轮的旧完成率
	cache.SetJSON(ctx, store, key, model.StudyPlan{CompletionRate: 0.1, DailyWordCount: 20}, time.Minute)

	plan := &model.StudyPlan{CompletionRate: 0.85, DailyWordCount: 20}
	err := layer.WriteThrough(ctx, key, plan, time.Minute, func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cached model.StudyPlan
	if !cache.GetJSON(ctx, store, key, &cached) {
		t.Fatal("plan snapshot missing after refresh")
	}
	if math.Abs(cached.CompletionRate-0.85) > 1e-9 {
		t.Fatalf("cached completion rate = %v, want the refreshed 0.85", cached.CompletionRate)
	}
	if cached.DailyWordCount != 20 {
		t.Fatalf("daily word count must be unchanged, got %d", cached.DailyWordCount)
	}
}

func TestRemainingDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := remainingDaysUntil(now.AddDate(0, 0, 30), now); got != 30 {
		t.Errorf("30 days ahead = %d, want 30", got)
	}
	if got := remainingDaysUntil(now.Add(6*time.Hour), now); got != 1 {
		t.Errorf("same-day target should floor to 1, got %d", got)
	}
	if got := remainingDaysUntil(now.AddDate(0, 0, -5), now); got != 1 {
		t.Errorf("past target should floor to 1, got %d", got)
	}
}
