package repository

import (
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type LearningProfileRepository struct {
	DB *gorm.DB
}

func NewLearningProfileRepository(db *gorm.DB) *LearningProfileRepository {
	return &LearningProfileRepository{DB: db}
}

func (r *LearningProfileRepository) Create(profile *model.LearningProfile) error {
	return r.DB.Create(profile).Error
}

func (r *LearningProfileRepository) Update(profile *model.LearningProfile) error {
	return r.DB.Save(profile).Error
}

func (r *LearningProfileRepository) FindByUser(userID uint) (*model.LearningProfile, error) {
	var profile model.LearningProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *LearningProfileRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.LearningProfile{}).Error
}
