package model

import "time"

type TaskType string

const (
	TaskVocabulary TaskType = "VOCABULARY"
	TaskReview     TaskType = "REVIEW"
	TaskWeakArea   TaskType = "WEAK_AREA"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskProgress  TaskStatus = "IN_PROGRESS"
	TaskCompleted TaskStatus = "COMPLETED"
)

// DailyTask 每日学习任务，每个 (计划, 日期, 类型) 一条，按日幂等生成。
// 状态由完成数与总数推导，不单独维护。
// swagger:model DailyTask
type DailyTask struct {
	BaseModel
	PlanID         uint       `gorm:"index;not null" json:"planId"`
	UserID         uint       `gorm:"index:idx_user_task_date;not null" json:"userId"`
	TaskDate       time.Time  `gorm:"index:idx_user_task_date;not null" json:"taskDate"`
	TaskType       TaskType   `gorm:"size:20;not null" json:"taskType"`
	TotalItems     int        `gorm:"not null" json:"totalItems"`
	CompletedItems int        `gorm:"default:0" json:"completedItems"`
	Status         TaskStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (DailyTask) TableName() string {
	return "daily_tasks"
}

// DeriveStatus 按完成数推导任务状态，首次达到完成时写入完成时间
func (t *DailyTask) DeriveStatus(now time.Time) {
	switch {
	case t.TotalItems > 0 && t.CompletedItems >= t.TotalItems:
		if t.Status != TaskCompleted {
			t.CompletedAt = &now
		}
		t.Status = TaskCompleted
	case t.CompletedItems > 0:
		t.Status = TaskProgress
		t.CompletedAt = nil
	default:
		t.Status = TaskPending
		t.CompletedAt = nil
	}
}
