package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
)

// StreakService 连续学习天数维护
type StreakService struct {
	StreakRepo *repository.StreakRepository
}

func NewStreakService(streakRepo *repository.StreakRepository) *StreakService {
	return &StreakService{StreakRepo: streakRepo}
}

// Touch 记录一次学习行为对连续天数的影响：
// 同一自然日内重复学习不变，隔天学习+1，间隔超过一天重置为1。
// 首次学习建档并从1起算。
func (s *StreakService) Touch(userID uint, now time.Time) error {
	streak, err := s.StreakRepo.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		day := truncateToDay(now)
		return s.StreakRepo.Create(&model.LearningStreak{
			UserID:        userID,
			CurrentStreak: 1,
			LongestStreak: 1,
			LastLearnDate: &day,
		})
	}

	current, changed := advanceStreak(streak.CurrentStreak, streak.LastLearnDate, now)
	if !changed {
		return nil
	}

	day := truncateToDay(now)
	streak.CurrentStreak = current
	streak.LastLearnDate = &day
	if current > streak.LongestStreak {
		streak.LongestStreak = current
	}
	return s.StreakRepo.Update(streak)
}

func (s *StreakService) GetStreak(userID uint) (*model.LearningStreak, error) {
	streak, err := s.StreakRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.LearningStreak{UserID: userID}, nil
		}
		return nil, err
	}
	return streak, nil
}

// advanceStreak 计算新的连续天数。changed 为 false 表示同一自然日内的重复学习，无需落库。
func advanceStreak(current int, lastLearn *time.Time, now time.Time) (next int, changed bool) {
	if lastLearn == nil {
		return 1, true
	}
	today := truncateToDay(now)
	last := truncateToDay(*lastLearn)
	switch days := int(today.Sub(last).Hours() / 24); {
	case days <= 0:
		return current, false
	case days == 1:
		return current + 1, true
	default:
		return 1, true
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
