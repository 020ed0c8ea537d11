package repository

import (
	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type StudyPlanRepository struct {
	DB *gorm.DB
}

func NewStudyPlanRepository(db *gorm.DB) *StudyPlanRepository {
	return &StudyPlanRepository{DB: db}
}

func (r *StudyPlanRepository) Create(plan *model.StudyPlan) error {
	return r.DB.Create(plan).Error
}

func (r *StudyPlanRepository) Update(plan *model.StudyPlan) error {
	return r.DB.Save(plan).Error
}

func (r *StudyPlanRepository) FindByIDAndUser(planID, userID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.DB.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *StudyPlanRepository) FindActiveByUser(userID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.DB.Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeactivateByUser 新计划生效时旧计划置为非活跃（保留历史，不删除）
func (r *StudyPlanRepository) DeactivateByUser(userID uint) error {
	return r.DB.Model(&model.StudyPlan{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).
		Error
}

// FindAllActive 全部生效计划，夜间调整周期遍历用
func (r *StudyPlanRepository) FindAllActive() ([]model.StudyPlan, error) {
	var plans []model.StudyPlan
	err := r.DB.Where("active = ?", true).Find(&plans).Error
	return plans, err
}

func (r *StudyPlanRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.StudyPlan{}).Error
}
