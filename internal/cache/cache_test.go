package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeStore 内存缓存桩，可注入故障
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]string
	getFail bool
	setFail bool
	delFail map[string]bool
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string), delFail: make(map[string]bool)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getFail {
		return "", false
	}
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setFail {
		return false
	}
	s.data[key] = value
	return true
}

func (s *fakeStore) Delete(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	if s.delFail[key] {
		return false
	}
	delete(s.data, key)
	return true
}

type snapshot struct {
	Value int `json:"value"`
}

func TestWriteThroughPersistFirst(t *testing.T) {
	store := newFakeStore()
	layer := NewLayer(store)

	persisted := false
	err := layer.WriteThrough(context.Background(), "k", snapshot{Value: 7}, time.Minute, func() error {
		persisted = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !persisted {
		t.Fatal("persist was not called")
	}

	var got snapshot
	if !GetJSON(context.Background(), store, "k", &got) || got.Value != 7 {
		t.Fatalf("cache not refreshed after write-through, got %+v", got)
	}
}

func TestWriteThroughRetriesThenSucceeds(t *testing.T) {
	store := newFakeStore()
	layer := NewLayer(store)

	attempts := 0
	err := layer.WriteThrough(context.Background(), "k", snapshot{Value: 1}, time.Minute, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient write failure")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error after retries: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWriteThroughSurfacesExhaustedFailure(t *testing.T) {
	store := newFakeStore()
	layer := NewLayer(store)

	attempts := 0
	sentinel := errors.New("db down")
	err := layer.WriteThrough(context.Background(), "k", snapshot{Value: 1}, time.Minute, func() error {
		attempts++
		return sentinel
	})
	if err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("error should wrap the persistence failure, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("cache must not be refreshed when persistence fails")
	}
}

func TestWriteThroughToleratesCacheFailure(t *testing.T) {
	store := newFakeStore()
	store.setFail = true
	layer := NewLayer(store)

	err := layer.WriteThrough(context.Background(), "k", snapshot{Value: 1}, time.Minute, func() error { return nil })
	if err != nil {
		t.Fatalf("cache failure must not surface to the caller: %v", err)
	}
}

func TestDetectAndRepair(t *testing.T) {
	store := newFakeStore()
	layer := NewLayer(store)
	ctx := context.Background()

	// 缓存缺失：回填，不算修复
	if repaired := layer.DetectAndRepair(ctx, "k", snapshot{Value: 1}, time.Minute); repaired {
		t.Error("backfilling a missing entry should not count as a repair")
	}

	// 一致：不动
	if repaired := layer.DetectAndRepair(ctx, "k", snapshot{Value: 1}, time.Minute); repaired {
		t.Error("consistent snapshot should not be repaired")
	}

	// 过期快照：覆盖并报告修复
	store.data["k"] = `{"value":99}`
	if repaired := layer.DetectAndRepair(ctx, "k", snapshot{Value: 2}, time.Minute); !repaired {
		t.Error("stale snapshot should be repaired")
	}
	var got snapshot
	if !GetJSON(ctx, store, "k", &got) || got.Value != 2 {
		t.Fatalf("cache should hold the durable value after repair, got %+v", got)
	}
}

func TestInvalidateUserCascadeContinuesOnFailure(t *testing.T) {
	store := newFakeStore()
	layer := NewLayer(store)
	ctx := context.Background()
	now := time.Now()

	userID := uint(42)
	keys := UserKeys(userID, now)
	for _, k := range keys {
		store.data[k] = "x"
	}
	// 让第一个键删除失败，级联仍须覆盖剩余键
	store.delFail[keys[0]] = true

	layer.InvalidateUser(ctx, userID, now)

	if len(store.deletes) != len(keys) {
		t.Fatalf("cascade attempted %d deletes, want %d", len(store.deletes), len(keys))
	}
	for _, k := range keys[1:] {
		if _, ok := store.data[k]; ok {
			t.Fatalf("key %s should have been invalidated", k)
		}
	}
}

func TestInvalidateUserCoversDatedTaskSnapshots(t *testing.T) {
	store := newFakeStore()
	layer := NewLayer(store)
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	userID := uint(42)

	// 昨天刚被读过的任务快照和预生成的明天快照都必须被级联清掉
	yesterday := DailyTasksKey(userID, now.AddDate(0, 0, -1))
	weekAgo := DailyTasksKey(userID, now.AddDate(0, 0, -dailyTaskKeyWindowDays))
	tomorrow := DailyTasksKey(userID, now.AddDate(0, 0, 1))
	for _, k := range []string{yesterday, weekAgo, tomorrow} {
		store.data[k] = "x"
	}

	layer.InvalidateUser(ctx, userID, now)

	for _, k := range []string{yesterday, weekAgo, tomorrow} {
		if _, ok := store.data[k]; ok {
			t.Errorf("dated task snapshot survived the cascade: %s", k)
		}
	}
}

func TestGetJSONCorruptedEntry(t *testing.T) {
	store := newFakeStore()
	store.data["k"] = "{not json"

	var got snapshot
	if GetJSON(context.Background(), store, "k", &got) {
		t.Fatal("corrupted entry must degrade to a miss")
	}
	if _, ok := store.data["k"]; ok {
		t.Fatal("corrupted entry should be evicted")
	}
}
