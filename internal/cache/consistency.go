package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vocab_learn_backend/pkg/logger"
)

const (
	maxPersistAttempts = 3
	baseBackoff        = 100 * time.Millisecond
)

// Layer 写通缓存一致性层：先落库再刷缓存，并提供过期快照检测修复与级联失效
type Layer struct {
	store Store
}

func NewLayer(store Store) *Layer {
	return &Layer{store: store}
}

func (l *Layer) Store() Store {
	return l.store
}

// PersistWithRetry 带退避的有界持久化重试：最多3次，退避 100ms×2^attempt，
// 耗尽后错误上抛给调用方
func (l *Layer) PersistWithRetry(persist func() error) error {
	var err error
	for attempt := 0; attempt < maxPersistAttempts; attempt++ {
		if err = persist(); err == nil {
			return nil
		}
		logger.Log.Warn("persist attempt failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
		if attempt < maxPersistAttempts-1 {
			time.Sleep(baseBackoff * (1 << attempt))
		}
	}
	return fmt.Errorf("persist exhausted retries: %w", err)
}

// WriteThrough 先持久化（带有界重试），成功后刷新缓存。
// 缓存刷新失败只降级记录，不影响结果。
func (l *Layer) WriteThrough(ctx context.Context, key string, value interface{}, ttl time.Duration, persist func() error) error {
	if err := l.PersistWithRetry(persist); err != nil {
		return fmt.Errorf("write-through: %w", err)
	}

	SetJSON(ctx, l.store, key, value, ttl)
	return nil
}

// DetectAndRepair 以持久层的最新值为准比对缓存快照；
// 不一致（或比对过程出错）时用持久层的值覆盖缓存并报告修复。
// 返回是否发生了修复。
func (l *Layer) DetectAndRepair(ctx context.Context, key string, durable interface{}, ttl time.Duration) bool {
	want, err := json.Marshal(durable)
	if err != nil {
		// 比对失败也尽力修复：直接清掉可疑快照
		logger.Log.Error("detect-and-repair marshal failed, evicting cache entry",
			zap.String("key", key), zap.Error(err))
		l.store.Delete(ctx, key)
		return true
	}

	cached, ok := l.store.Get(ctx, key)
	if !ok {
		// 缓存缺失不算不一致，回填即可
		l.store.Set(ctx, key, string(want), ttl)
		return false
	}

	if bytes.Equal([]byte(cached), want) {
		return false
	}

	logger.Log.Info("stale cache snapshot repaired", zap.String("key", key))
	l.store.Set(ctx, key, string(want), ttl)
	return true
}

// InvalidateUser 一次性失效该用户派生的全部缓存键；
// 单个键删除失败只记录日志，级联继续。
func (l *Layer) InvalidateUser(ctx context.Context, userID uint, now time.Time) {
	for _, key := range UserKeys(userID, now) {
		if !l.store.Delete(ctx, key) {
			logger.Log.Warn("cascade invalidation: key delete failed, continuing",
				zap.Uint("userId", userID), zap.String("key", key))
		}
	}
}

// Invalidate 失效单个键
func (l *Layer) Invalidate(ctx context.Context, key string) {
	if !l.store.Delete(ctx, key) {
		logger.Log.Warn("cache invalidation failed, entry will expire by TTL", zap.String("key", key))
	}
}
