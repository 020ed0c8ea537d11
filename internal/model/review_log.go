package model

import "time"

// ReviewLog 复习行为流水，只追加，供学习分析使用
type ReviewLog struct {
	BaseModel
	UserID     uint      `gorm:"index:idx_user_reviewed;not null" json:"userId"`
	WordID     uint      `gorm:"index;not null" json:"wordId"`
	Category   string    `gorm:"size:50" json:"category"`
	Correct    bool      `json:"correct"`
	ReviewedAt time.Time `gorm:"index:idx_user_reviewed;not null" json:"reviewedAt"`
}

func (ReviewLog) TableName() string {
	return "review_logs"
}
