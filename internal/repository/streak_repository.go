package repository

import (
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) Create(streak *model.LearningStreak) error {
	return r.DB.Create(streak).Error
}

func (r *StreakRepository) Update(streak *model.LearningStreak) error {
	return r.DB.Save(streak).Error
}

func (r *StreakRepository) FindByUser(userID uint) (*model.LearningStreak, error) {
	var streak model.LearningStreak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *StreakRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.LearningStreak{}).Error
}
