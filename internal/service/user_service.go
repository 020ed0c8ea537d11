package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocab_learn_backend/internal/cache"
	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/util"
	"vocab_learn_backend/pkg/logger"
)

// UserService 账号资料与学习数据整体清除
type UserService struct {
	UserRepo        *repository.UserRepository
	RecordRepo      *repository.MemoryRecordRepository
	PlanRepo        *repository.StudyPlanRepository
	TaskRepo        *repository.DailyTaskRepository
	ProfileRepo     *repository.LearningProfileRepository
	StreakRepo      *repository.StreakRepository
	AchievementRepo *repository.AchievementRepository
	LogRepo         *repository.ReviewLogRepository
	Cache           *cache.Layer
}

func NewUserService(
	userRepo *repository.UserRepository,
	recordRepo *repository.MemoryRecordRepository,
	planRepo *repository.StudyPlanRepository,
	taskRepo *repository.DailyTaskRepository,
	profileRepo *repository.LearningProfileRepository,
	streakRepo *repository.StreakRepository,
	achievementRepo *repository.AchievementRepository,
	logRepo *repository.ReviewLogRepository,
	cacheLayer *cache.Layer,
) *UserService {
	return &UserService{
		UserRepo:        userRepo,
		RecordRepo:      recordRepo,
		PlanRepo:        planRepo,
		TaskRepo:        taskRepo,
		ProfileRepo:     profileRepo,
		StreakRepo:      streakRepo,
		AchievementRepo: achievementRepo,
		LogRepo:         logRepo,
		Cache:           cacheLayer,
	}
}

func (s *UserService) GetUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, name, language string) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if language != "" {
		user.Language = language
	}
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// EraseLearningData 整体清除用户学习数据并级联失效其全部缓存键。
// 各表删除按序执行，任一失败即中止并上抛；缓存级联单键失败不中断。
func (s *UserService) EraseLearningData(ctx context.Context, userID uint) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}

	deletions := []struct {
		name string
		fn   func(uint) error
	}{
		{"memory records", s.RecordRepo.DeleteByUser},
		{"study plans", s.PlanRepo.DeleteByUser},
		{"daily tasks", s.TaskRepo.DeleteByUser},
		{"learning profile", s.ProfileRepo.DeleteByUser},
		{"learning streak", s.StreakRepo.DeleteByUser},
		{"achievements", s.AchievementRepo.DeleteByUser},
		{"review logs", s.LogRepo.DeleteByUser},
	}
	for _, d := range deletions {
		if err := d.fn(userID); err != nil {
			logger.Log.Error("erase learning data failed",
				zap.Uint("userId", userID), zap.String("table", d.name), zap.Error(err))
			return err
		}
	}

	s.Cache.InvalidateUser(ctx, userID, time.Now())
	logger.Log.Info("learning data erased", zap.Uint("userId", userID))
	return nil
}
