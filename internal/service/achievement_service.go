package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/srs"
	"vocab_learn_backend/pkg/logger"
)

// 正确率类成就的最小样本量，复习太少时正确率无意义
const accuracyMinReviews = 20

// AchievementService 成就门槛检查与授予，授予幂等
type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	RecordRepo      *repository.MemoryRecordRepository
	StreakRepo      *repository.StreakRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	recordRepo *repository.MemoryRecordRepository,
	streakRepo *repository.StreakRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		RecordRepo:      recordRepo,
		StreakRepo:      streakRepo,
	}
}

// userMetrics 成就考核的四项指标快照
type userMetrics struct {
	Streak   int
	Mastered int64
	Reviews  int64
	Accuracy float64 // 百分比，复习不足 accuracyMinReviews 次时为0
}

// CheckAndGrant 对照成就目录补授所有已达标且未解锁的成就。
// 同一成就重复触发不重复授予。
func (s *AchievementService) CheckAndGrant(userID uint) error {
	defs, err := s.AchievementRepo.ListDefinitions()
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return nil
	}

	unlocked, err := s.AchievementRepo.FindUnlockedIDs(userID)
	if err != nil {
		return err
	}

	metrics, err := s.collectMetrics(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, def := range defs {
		if unlocked[def.ID] || !metricMeets(metrics, def) {
			continue
		}
		if err := s.AchievementRepo.Grant(&model.UserAchievement{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    now,
		}); err != nil {
			// 唯一索引兜底并发重复授予，其它错误继续补授后续成就
			logger.Log.Warn("achievement grant failed",
				zap.Uint("userId", userID), zap.Uint("achievementId", def.ID), zap.Error(err))
			continue
		}
		logger.Log.Info("achievement unlocked",
			zap.Uint("userId", userID), zap.String("name", def.Name))
	}
	return nil
}

// ListUnlocked 用户已解锁成就，按解锁时间倒序
func (s *AchievementService) ListUnlocked(userID uint) ([]model.UserAchievement, error) {
	return s.AchievementRepo.ListUnlocked(userID)
}

// ListAll 成就目录及用户解锁状态
func (s *AchievementService) ListAll(userID uint) ([]model.Achievement, map[uint]bool, error) {
	defs, err := s.AchievementRepo.ListDefinitions()
	if err != nil {
		return nil, nil, err
	}
	unlocked, err := s.AchievementRepo.FindUnlockedIDs(userID)
	if err != nil {
		return nil, nil, err
	}
	return defs, unlocked, nil
}

func (s *AchievementService) collectMetrics(userID uint) (*userMetrics, error) {
	metrics := &userMetrics{}

	streak, err := s.StreakRepo.FindByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if streak != nil {
		metrics.Streak = streak.CurrentStreak
	}

	mastered, err := s.RecordRepo.CountByStatus(userID, srs.StatusMastered)
	if err != nil {
		return nil, err
	}
	metrics.Mastered = mastered

	totals, err := s.RecordRepo.GetReviewTotals(userID)
	if err != nil {
		return nil, err
	}
	metrics.Reviews = totals.Reviews
	if totals.Reviews >= accuracyMinReviews {
		metrics.Accuracy = float64(totals.Correct) / float64(totals.Reviews) * 100
	}

	return metrics, nil
}

// metricMeets 判断指标是否达到成就门槛
func metricMeets(m *userMetrics, def model.Achievement) bool {
	switch def.Category {
	case model.AchievementStreak:
		return m.Streak >= def.Threshold
	case model.AchievementMastered:
		return m.Mastered >= int64(def.Threshold)
	case model.AchievementReviews:
		return m.Reviews >= int64(def.Threshold)
	case model.AchievementAccuracy:
		return m.Accuracy >= float64(def.Threshold)
	default:
		return false
	}
}
