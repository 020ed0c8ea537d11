package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"vocab_learn_backend/pkg/logger"
)

// 缓存调用统一短超时，后端不可用时按未命中降级，不向调用方抛错
const opTimeout = 500 * time.Millisecond

// Store 缓存后端最小契约：Get未命中返回false，Set/Delete失败返回false。
// 任何后端故障都体现为未命中/未操作，而不是错误。
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) bool
	Delete(ctx context.Context, key string) bool
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore 包装 redis 客户端为降级友好的 Store
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("cache get degraded to miss", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Log.Warn("cache set skipped", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *redisStore) Delete(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("cache delete skipped", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// GetJSON 读取并反序列化缓存值，未命中或数据损坏返回false
func GetJSON(ctx context.Context, store Store, key string, out interface{}) bool {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Log.Warn("cache value corrupted, treating as miss", zap.String("key", key), zap.Error(err))
		store.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON 序列化并写入缓存
func SetJSON(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return store.Set(ctx, key, string(raw), ttl)
}

// 用户维度的缓存键
func DueReviewsKey(userID uint) string {
	return fmt.Sprintf("vocab:due_reviews:%d", userID)
}

func PlanKey(userID uint) string {
	return fmt.Sprintf("vocab:study_plan:%d", userID)
}

func ProfileKey(userID uint) string {
	return fmt.Sprintf("vocab:profile:%d", userID)
}

func DailyTasksKey(userID uint, date time.Time) string {
	return fmt.Sprintf("vocab:daily_tasks:%d:%s", userID, date.Format("2006-01-02"))
}

// 级联失效覆盖的任务快照日期窗口：回看一周、前瞻一天，窗口外的键由TTL兜底
const dailyTaskKeyWindowDays = 7

// UserKeys 从用户ID派生的全部缓存键（级联失效用）。
// 任务快照按日期分键，逐日展开整个窗口。
func UserKeys(userID uint, now time.Time) []string {
	keys := []string{
		DueReviewsKey(userID),
		PlanKey(userID),
		ProfileKey(userID),
	}
	for offset := -dailyTaskKeyWindowDays; offset <= 1; offset++ {
		keys = append(keys, DailyTasksKey(userID, now.AddDate(0, 0, offset)))
	}
	return keys
}
