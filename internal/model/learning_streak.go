package model

import "time"

// LearningStreak 连续学习天数，每个用户一条。
// 每个自然日最多更新一次，间隔超过一天则当前连续天数重置为1。
// swagger:model LearningStreak
type LearningStreak struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentStreak int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak int        `gorm:"default:0" json:"longestStreak"`
	LastLearnDate *time.Time `json:"lastLearnDate"`
}

func (LearningStreak) TableName() string {
	return "learning_streaks"
}
