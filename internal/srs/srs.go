package srs

import "math"

// Status 单词记忆状态，由掌握度唯一确定
type Status string

const (
	StatusLearning  Status = "LEARNING"
	StatusMastered  Status = "MASTERED"
	StatusForgotten Status = "FORGOTTEN"
)

const (
	// MaxMastery 掌握度上限
	MaxMastery = 100
	// MasteredThreshold 达到该掌握度即视为已掌握
	MasteredThreshold = 80
	// MaxIntervalHours 复习间隔上限（30天）
	MaxIntervalHours = 720

	correctGain  = 10
	wrongPenalty = 15
	// 连续答错达到该次数后间隔硬重置为1小时
	hardResetWrongCount = 3
)

// UpdateMastery 根据本次回答更新掌握度：答对+10封顶100，答错-15保底0。
// 结果永远落在 [0,100] 区间内。
func UpdateMastery(current int, correct bool) int {
	if current < 0 {
		current = 0
	}
	if current > MaxMastery {
		current = MaxMastery
	}

	if correct {
		current += correctGain
		if current > MaxMastery {
			current = MaxMastery
		}
		return current
	}

	current -= wrongPenalty
	if current < 0 {
		current = 0
	}
	return current
}

// DetermineStatus 掌握度到状态的纯映射：0为遗忘，>=80为已掌握，其余为学习中
func DetermineStatus(mastery int) Status {
	switch {
	case mastery <= 0:
		return StatusForgotten
	case mastery >= MasteredThreshold:
		return StatusMastered
	default:
		return StatusLearning
	}
}

// GrowthFactor 按掌握度分五档返回间隔增长因子，掌握度越高因子越大
func GrowthFactor(mastery int) int {
	switch {
	case mastery < 20:
		return 2
	case mastery < 40:
		return 3
	case mastery < 60:
		return 4
	case mastery < 80:
		return 6
	default:
		return 8
	}
}

// ReviewInterval 计算下次复习间隔（小时）。
// 连续答错3次及以上直接重置为1小时；否则按 growthFactor^reviewCount 增长，
// 上限720小时（30天），下限1小时。
func ReviewInterval(mastery, reviewCount, consecutiveWrong int) int {
	if consecutiveWrong >= hardResetWrongCount {
		return 1
	}

	if reviewCount < 0 {
		reviewCount = 0
	}

	factor := GrowthFactor(mastery)
	interval := math.Round(math.Pow(float64(factor), float64(reviewCount)))

	if interval > MaxIntervalHours {
		return MaxIntervalHours
	}
	if interval < 1 {
		return 1
	}
	return int(interval)
}
