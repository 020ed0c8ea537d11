package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocab_learn_backend/internal/cache"
	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/srs"
	"vocab_learn_backend/internal/util"
	"vocab_learn_backend/pkg/logger"
	"vocab_learn_backend/pkg/monitoring"
)

// 到期队列一次最多预取并缓存的条数
const maxDueFetch = 200

// ReviewService 复习引擎编排：提交复习、到期队列查询与缓存维护
type ReviewService struct {
	RecordRepo  *repository.MemoryRecordRepository
	WordRepo    *repository.WordRepository
	LogRepo     *repository.ReviewLogRepository
	Streak      *StreakService
	Achievement *AchievementService
	Cache       *cache.Layer
	Cfg         *config.Config
}

func NewReviewService(
	recordRepo *repository.MemoryRecordRepository,
	wordRepo *repository.WordRepository,
	logRepo *repository.ReviewLogRepository,
	streak *StreakService,
	achievement *AchievementService,
	cacheLayer *cache.Layer,
	cfg *config.Config,
) *ReviewService {
	return &ReviewService{
		RecordRepo:  recordRepo,
		WordRepo:    wordRepo,
		LogRepo:     logRepo,
		Streak:      streak,
		Achievement: achievement,
		Cache:       cacheLayer,
		Cfg:         cfg,
	}
}

// SubmitReview 提交一次复习：记忆状态转移 → 持久化（带重试）→
// 立即失效到期队列缓存 → 更新连续学习 → 复核成就 → 追加行为流水。
// 首次遇到的词条会先建立初始记录（掌握度0，状态LEARNING）。
func (s *ReviewService) SubmitReview(ctx context.Context, userID, wordID uint, correct bool) (*model.MemoryRecord, error) {
	word, err := s.WordRepo.FindByID(wordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWordNotFound
		}
		return nil, err
	}

	now := time.Now()

	record, err := s.RecordRepo.FindByUserAndWord(userID, wordID)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = &model.MemoryRecord{
			UserID: userID,
			WordID: wordID,
			Status: srs.StatusLearning,
		}
		isNew = true
	}

	record.MasteryLevel = srs.UpdateMastery(record.MasteryLevel, correct)
	record.ReviewCount++
	if correct {
		record.CorrectCount++
		record.ConsecutiveWrong = 0
	} else {
		record.WrongCount++
		record.ConsecutiveWrong++
	}
	record.Status = srs.DetermineStatus(record.MasteryLevel)

	interval := srs.ReviewInterval(record.MasteryLevel, record.ReviewCount, record.ConsecutiveWrong)
	next := now.Add(time.Duration(interval) * time.Hour)
	record.LastReviewAt = &now
	record.NextReviewAt = &next

	persist := s.RecordRepo.Update
	if isNew {
		persist = s.RecordRepo.Create
	}
	if err := s.Cache.PersistWithRetry(func() error { return persist(record) }); err != nil {
		return nil, err
	}

	// 写通失效：该用户的到期队列立即作废，不等TTL
	s.Cache.Invalidate(ctx, cache.DueReviewsKey(userID))

	result := "wrong"
	if correct {
		result = "correct"
	}
	monitoring.ReviewsSubmitted.WithLabelValues(result).Inc()

	if err := s.LogRepo.Create(&model.ReviewLog{
		UserID:     userID,
		WordID:     wordID,
		Category:   word.Category,
		Correct:    correct,
		ReviewedAt: now,
	}); err != nil {
		logger.Log.Warn("review log append failed", zap.Uint("userId", userID), zap.Error(err))
	}

	if err := s.Streak.Touch(userID, now); err != nil {
		logger.Log.Warn("streak update failed", zap.Uint("userId", userID), zap.Error(err))
	}
	if err := s.Achievement.CheckAndGrant(userID); err != nil {
		logger.Log.Warn("achievement check failed", zap.Uint("userId", userID), zap.Error(err))
	}

	return record, nil
}

// GetDueReviews 到期复习队列：逾期最久优先，同一到期时间薄弱词优先。
// 队列按用户缓存1小时，提交复习即失效。
func (s *ReviewService) GetDueReviews(ctx context.Context, userID uint, limit int) ([]model.MemoryRecord, error) {
	if limit <= 0 || limit > maxDueFetch {
		limit = maxDueFetch
	}
	now := time.Now()
	key := cache.DueReviewsKey(userID)

	var records []model.MemoryRecord
	if cache.GetJSON(ctx, s.Cache.Store(), key, &records) {
		records = filterDue(records, now)
		sortDueRecords(records)
		if len(records) > limit {
			records = records[:limit]
		}
		return records, nil
	}

	records, err := s.RecordRepo.FindDueReviews(userID, now, maxDueFetch)
	if err != nil {
		return nil, err
	}
	sortDueRecords(records)

	cache.SetJSON(ctx, s.Cache.Store(), key, records, s.Cfg.Cache.DueReviewTTL())

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// CountDue 当前到期数量（绕过缓存，任务生成用）
func (s *ReviewService) CountDue(userID uint) (int64, error) {
	return s.RecordRepo.CountDue(userID, time.Now())
}

// RepairDueCache 以持久层为准修复该用户的到期队列缓存快照
func (s *ReviewService) RepairDueCache(ctx context.Context, userID uint) (bool, error) {
	records, err := s.RecordRepo.FindDueReviews(userID, time.Now(), maxDueFetch)
	if err != nil {
		return false, err
	}
	sortDueRecords(records)

	repaired := s.Cache.DetectAndRepair(ctx, cache.DueReviewsKey(userID), records, s.Cfg.Cache.DueReviewTTL())
	if repaired {
		monitoring.CacheRepairs.Inc()
	}
	return repaired, nil
}

// sortDueRecords 到期队列排序：到期时间升序，相同到期时间按掌握度升序。
// 空列表与单元素列表原样返回。
func sortDueRecords(records []model.MemoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].NextReviewAt, records[j].NextReviewAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		if !a.Equal(*b) {
			return a.Before(*b)
		}
		return records[i].MasteryLevel < records[j].MasteryLevel
	})
}

// filterDue 去掉缓存快照里已不再到期的条目
func filterDue(records []model.MemoryRecord, now time.Time) []model.MemoryRecord {
	due := records[:0]
	for _, r := range records {
		if r.NextReviewAt != nil && !r.NextReviewAt.After(now) {
			due = append(due, r)
		}
	}
	return due
}
