package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type SpeedTrend string

const (
	SpeedFast   SpeedTrend = "FAST"
	SpeedNormal SpeedTrend = "NORMAL"
	SpeedSlow   SpeedTrend = "SLOW"
)

// 薄弱项分类依据
const (
	WeakKindForgotten = "weak"      // 遗忘比例过高
	WeakKindReinforce = "reinforce" // 学习中比例过高，需要加强
)

// WeakArea 一个薄弱领域及其比率。Kind 之外的分类语义留作扩展点。
type WeakArea struct {
	Category string  `json:"category"`
	Rate     float64 `json:"rate"`
	Kind     string  `json:"kind"`
}

// WeakAreaList 薄弱领域JSON列，领域层为结构化列表
type WeakAreaList []WeakArea

func (l WeakAreaList) Value() (driver.Value, error) {
	if l == nil {
		l = WeakAreaList{}
	}
	return json.Marshal(l)
}

func (l *WeakAreaList) Scan(value interface{}) error {
	if value == nil {
		*l = WeakAreaList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("weak area list: unsupported column type")
		}
	}
	if len(bytes) == 0 {
		*l = WeakAreaList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// LearningProfile 用户学习画像，首次访问时惰性创建，由分析刷新流程更新。
// 三个时段占比之和为1（允许浮点误差），无数据时全为0。
// swagger:model LearningProfile
type LearningProfile struct {
	BaseModel
	UserID         uint         `gorm:"uniqueIndex;not null" json:"userId"`
	MorningRatio   float64      `gorm:"default:0" json:"morningRatio"`
	AfternoonRatio float64      `gorm:"default:0" json:"afternoonRatio"`
	EveningRatio   float64      `gorm:"default:0" json:"eveningRatio"`
	WeakAreas      WeakAreaList `gorm:"type:json" json:"weakAreas"`
	AvgDailyWords  float64      `gorm:"default:0" json:"avgDailyWords"`
	AvgAccuracy    float64      `gorm:"default:0" json:"avgAccuracy"`
	SpeedTrend     SpeedTrend   `gorm:"size:10;default:'NORMAL'" json:"speedTrend"`
	LastAnalyzedAt *time.Time   `json:"lastAnalyzedAt"`
}

func (LearningProfile) TableName() string {
	return "learning_profiles"
}

// HasWeakAreas 计划生成时据此决定是否追加薄弱项任务
func (p *LearningProfile) HasWeakAreas() bool {
	return len(p.WeakAreas) > 0
}
