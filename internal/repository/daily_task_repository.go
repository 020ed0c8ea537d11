package repository

import (
	"time"

	"gorm.io/gorm"

	"vocab_learn_backend/internal/model"
)

type DailyTaskRepository struct {
	DB *gorm.DB
}

func NewDailyTaskRepository(db *gorm.DB) *DailyTaskRepository {
	return &DailyTaskRepository{DB: db}
}

// CreateBatch 同一天的任务整批落库，任何一条失败整体回滚
func (r *DailyTaskRepository) CreateBatch(tasks []*model.DailyTask) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			if err := tx.Create(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DailyTaskRepository) Update(task *model.DailyTask) error {
	return r.DB.Save(task).Error
}

func (r *DailyTaskRepository) FindByIDAndUser(taskID, userID uint) (*model.DailyTask, error) {
	var task model.DailyTask
	err := r.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByUserAndDate 取用户某一天的全部任务（日界按自然日）
func (r *DailyTaskRepository) FindByUserAndDate(userID uint, date time.Time) ([]model.DailyTask, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	var tasks []model.DailyTask
	err := r.DB.Where("user_id = ? AND task_date >= ? AND task_date < ?", userID, start, end).
		Order("task_type ASC").
		Find(&tasks).Error
	return tasks, err
}

// FindByUserAndDateRange 完成率计算的滑动窗口查询
func (r *DailyTaskRepository) FindByUserAndDateRange(userID uint, start, end time.Time) ([]model.DailyTask, error) {
	var tasks []model.DailyTask
	err := r.DB.Where("user_id = ? AND task_date >= ? AND task_date < ?", userID, start, end).
		Order("task_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *DailyTaskRepository) DeleteByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.DailyTask{}).Error
}
