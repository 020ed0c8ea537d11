package model

import "time"

// AchievementCategory 成就考核的指标类别
type AchievementCategory string

const (
	AchievementStreak   AchievementCategory = "STREAK"   // 连续学习天数
	AchievementMastered AchievementCategory = "MASTERED" // 已掌握单词数
	AchievementReviews  AchievementCategory = "REVIEWS"  // 累计复习次数
	AchievementAccuracy AchievementCategory = "ACCURACY" // 正确率百分比
)

// Achievement 成就定义（静态目录：类别 + 数值门槛）
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name      string              `gorm:"size:100;not null" json:"name"`
	Icon      string              `gorm:"size:255" json:"icon"`
	Category  AchievementCategory `gorm:"size:20;not null;index" json:"category"`
	Threshold int                 `gorm:"not null" json:"threshold"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 用户已解锁的成就，解锁一次后不重复授予
type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlockedAt"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
