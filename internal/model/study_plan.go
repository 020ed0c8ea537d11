package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type GoalType string

const (
	GoalExam     GoalType = "EXAM"
	GoalTravel   GoalType = "TRAVEL"
	GoalBusiness GoalType = "BUSINESS"
	GoalDaily    GoalType = "DAILY"
)

type PlanPhase string

const (
	PhaseBeginner     PlanPhase = "BEGINNER"
	PhaseIntermediate PlanPhase = "INTERMEDIATE"
	PhaseAdvanced     PlanPhase = "ADVANCED"
)

// MaxAdjustmentHistory 调整历史最多保留条数
const MaxAdjustmentHistory = 10

// PlanAdjustment 一次任务量调整记录
type PlanAdjustment struct {
	AdjustedAt     time.Time `json:"adjustedAt"`
	CompletionRate float64   `json:"completionRate"`
	OldCount       int       `json:"oldCount"`
	NewCount       int       `json:"newCount"`
	Reason         string    `json:"reason"`
}

// AdjustmentHistory 调整历史，最新在前，上限10条。
// 领域层是结构化数据，仅在持久化边界序列化为JSON。
type AdjustmentHistory []PlanAdjustment

// Push 头插一条调整记录并裁剪到上限
func (h *AdjustmentHistory) Push(a PlanAdjustment) {
	next := append(AdjustmentHistory{a}, *h...)
	if len(next) > MaxAdjustmentHistory {
		next = next[:MaxAdjustmentHistory]
	}
	*h = next
}

func (h AdjustmentHistory) Value() (driver.Value, error) {
	if h == nil {
		h = AdjustmentHistory{}
	}
	return json.Marshal(h)
}

func (h *AdjustmentHistory) Scan(value interface{}) error {
	if value == nil {
		*h = AdjustmentHistory{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("adjustment history: unsupported column type")
		}
	}
	if len(bytes) == 0 {
		*h = AdjustmentHistory{}
		return nil
	}
	return json.Unmarshal(bytes, h)
}

// StringList 字符串数组JSON列
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("string list: unsupported column type")
		}
	}
	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// StudyPlan 学习计划，每个用户同一时刻只有一个生效计划；
// 新建计划时旧计划置为非活跃而不删除。
// swagger:model StudyPlan
type StudyPlan struct {
	BaseModel
	UserID            uint              `gorm:"index;not null" json:"userId"`
	GoalType          GoalType          `gorm:"size:20;not null" json:"goalType"`
	TargetDate        time.Time         `gorm:"not null" json:"targetDate"`
	TargetWordCount   int               `gorm:"not null" json:"targetWordCount"`
	DailyWordCount    int               `gorm:"not null" json:"dailyWordCount"`
	Phase             PlanPhase         `gorm:"size:20;default:'BEGINNER'" json:"phase"`
	CompletionRate    float64           `gorm:"default:0" json:"completionRate"`
	WordGroups        StringList        `gorm:"type:json" json:"wordGroups"`
	GroupPriorities   StringList        `gorm:"type:json" json:"groupPriorities"`
	AdjustmentHistory AdjustmentHistory `gorm:"type:json" json:"adjustmentHistory"`
	Active            bool              `gorm:"default:true;index" json:"active"`
}

func (StudyPlan) TableName() string {
	return "study_plans"
}
