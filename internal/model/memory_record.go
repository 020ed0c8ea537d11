package model

import (
	"time"

	"vocab_learn_backend/internal/srs"
)

// MemoryRecord 记录用户对单个词条的记忆状态，每个 (用户, 词条) 一条。
// 掌握度始终在 [0,100]，状态由掌握度决定；仅复习提交可以修改该记录。
// swagger:model MemoryRecord
type MemoryRecord struct {
	BaseModel
	UserID           uint       `gorm:"uniqueIndex:idx_user_word;not null" json:"userId"`
	WordID           uint       `gorm:"uniqueIndex:idx_user_word;not null" json:"wordId"`
	MasteryLevel     int        `gorm:"default:0" json:"masteryLevel"`
	ReviewCount      int        `gorm:"default:0" json:"reviewCount"`
	CorrectCount     int        `gorm:"default:0" json:"correctCount"`
	WrongCount       int        `gorm:"default:0" json:"wrongCount"`
	ConsecutiveWrong int        `gorm:"default:0" json:"consecutiveWrong"`
	Status           srs.Status `gorm:"size:20;default:'LEARNING'" json:"status"`
	LastReviewAt     *time.Time `json:"lastReviewAt"`
	NextReviewAt     *time.Time `gorm:"index" json:"nextReviewAt"`

	Word *Word `gorm:"foreignKey:WordID" json:"word,omitempty"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}
