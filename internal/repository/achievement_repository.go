package repository

import (
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// ListDefinitions 成就静态目录
func (r *AchievementRepository) ListDefinitions() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("category ASC, threshold ASC").Find(&achievements).Error
	return achievements, err
}

// FindUnlockedIDs 用户已解锁的成就定义ID集合，授予前的幂等检查用
func (r *AchievementRepository) FindUnlockedIDs(userID uint) (map[uint]bool, error) {
	var rows []model.UserAchievement
	if err := r.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(rows))
	for _, row := range rows {
		unlocked[row.AchievementID] = true
	}
	return unlocked, nil
}

func (r *AchievementRepository) Grant(ua *model.UserAchievement) error {
	return r.DB.Create(ua).Error
}

// ListUnlocked 用户已解锁成就（含定义）
func (r *AchievementRepository) ListUnlocked(userID uint) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AchievementRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.UserAchievement{}).Error
}
