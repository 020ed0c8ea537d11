package repository

import (
	"time"

	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/srs"
)

type MemoryRecordRepository struct {
	DB *gorm.DB
}

func NewMemoryRecordRepository(db *gorm.DB) *MemoryRecordRepository {
	return &MemoryRecordRepository{DB: db}
}

func (r *MemoryRecordRepository) Create(record *model.MemoryRecord) error {
	return r.DB.Create(record).Error
}

func (r *MemoryRecordRepository) Update(record *model.MemoryRecord) error {
	return r.DB.Save(record).Error
}

func (r *MemoryRecordRepository) FindByID(id uint) (*model.MemoryRecord, error) {
	var record model.MemoryRecord
	err := r.DB.First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *MemoryRecordRepository) FindByUserAndWord(userID, wordID uint) (*model.MemoryRecord, error) {
	var record model.MemoryRecord
	err := r.DB.Where("user_id = ? AND word_id = ?", userID, wordID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindDueReviews 查询到期复习队列：next_review_at 非空且不晚于 now，
// 先按到期时间升序（逾期最久优先），到期时间相同再按掌握度升序（薄弱优先）。
func (r *MemoryRecordRepository) FindDueReviews(userID uint, now time.Time, limit int) ([]model.MemoryRecord, error) {
	var records []model.MemoryRecord
	err := r.DB.Preload("Word").
		Where("user_id = ? AND next_review_at IS NOT NULL AND next_review_at <= ?", userID, now).
		Order("next_review_at ASC, mastery_level ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *MemoryRecordRepository) CountDue(userID uint, now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MemoryRecord{}).
		Where("user_id = ? AND next_review_at IS NOT NULL AND next_review_at <= ?", userID, now).
		Count(&count).Error
	return count, err
}

func (r *MemoryRecordRepository) CountByStatus(userID uint, status srs.Status) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MemoryRecord{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

// ReviewTotals 用户累计复习统计
type ReviewTotals struct {
	Reviews int64
	Correct int64
	Wrong   int64
}

func (r *MemoryRecordRepository) GetReviewTotals(userID uint) (*ReviewTotals, error) {
	var totals ReviewTotals
	err := r.DB.Model(&model.MemoryRecord{}).
		Select("COALESCE(SUM(review_count),0) AS reviews, COALESCE(SUM(correct_count),0) AS correct, COALESCE(SUM(wrong_count),0) AS wrong").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// CategoryStatus 记忆状态与词条分类的联查投影，供薄弱项分析使用
type CategoryStatus struct {
	Category string
	Status   srs.Status
}

func (r *MemoryRecordRepository) FindStatusByCategory(userID uint) ([]CategoryStatus, error) {
	var rows []CategoryStatus
	err := r.DB.Model(&model.MemoryRecord{}).
		Select("words.category AS category, memory_records.status AS status").
		Joins("JOIN words ON words.id = memory_records.word_id").
		Where("memory_records.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}

// DeleteByUser 账号数据整体清除时使用
func (r *MemoryRecordRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.MemoryRecord{}).Error
}
