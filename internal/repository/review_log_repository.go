package repository

import (
	"time"

	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type ReviewLogRepository struct {
	DB *gorm.DB
}

func NewReviewLogRepository(db *gorm.DB) *ReviewLogRepository {
	return &ReviewLogRepository{DB: db}
}

func (r *ReviewLogRepository) Create(log *model.ReviewLog) error {
	return r.DB.Create(log).Error
}

// FindByUserSince 取用户某时刻之后的复习流水，时间升序
func (r *ReviewLogRepository) FindByUserSince(userID uint, since time.Time) ([]model.ReviewLog, error) {
	var logs []model.ReviewLog
	err := r.DB.Where("user_id = ? AND reviewed_at >= ?", userID, since).
		Order("reviewed_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *ReviewLogRepository) FindByUser(userID uint) ([]model.ReviewLog, error) {
	var logs []model.ReviewLog
	err := r.DB.Where("user_id = ?", userID).
		Order("reviewed_at ASC").
		Find(&logs).Error
	return logs, err
}

// ActiveUserIDs 某时刻之后有过复习行为的用户ID，画像刷新周期遍历用
func (r *ReviewLogRepository) ActiveUserIDs(since time.Time) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ReviewLog{}).
		Where("reviewed_at >= ?", since).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *ReviewLogRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.ReviewLog{}).Error
}
