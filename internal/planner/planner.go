package planner

import (
	"math"

	"vocab_learn_backend/internal/model"
)

const (
	// MinDailyWords 每日任务量下限
	MinDailyWords = 10
	// MaxDailyWords 每日任务量上限
	MaxDailyWords = 50

	// 完成率反馈阈值
	lowCompletionRate  = 0.60
	highCompletionRate = 0.90
)

// ProfileSnapshot 学习画像快照，计算任务量所需的最小切面
type ProfileSnapshot struct {
	SpeedTrend  model.SpeedTrend
	AvgAccuracy float64
}

// DailyTaskCount 计算每日任务量：目标词数/剩余天数为基数，
// 学习速度 FAST 上浮20%，SLOW 下调20%，正确率低于0.6再下调10%，
// 最终收敛到 [10,50]。非法输入直接返回下限。
func DailyTaskCount(profile ProfileSnapshot, remainingDays, targetWordCount int) int {
	if remainingDays <= 0 || targetWordCount <= 0 {
		return MinDailyWords
	}

	count := float64(targetWordCount) / float64(remainingDays)

	switch profile.SpeedTrend {
	case model.SpeedFast:
		count *= 1.2
	case model.SpeedSlow:
		count *= 0.8
	}

	if profile.AvgAccuracy < 0.6 {
		count *= 0.9
	}

	return clamp(int(math.Round(count)))
}

// AdjustDifficulty 按近期完成率调整任务量：
// 低于0.6降两成，高于0.9加一成，区间内不变；结果重新收敛到 [10,50]。
// 当前值不在合法区间时原样返回（防御性不操作）。
func AdjustDifficulty(completionRate float64, currentCount int) int {
	if currentCount < MinDailyWords || currentCount > MaxDailyWords {
		return currentCount
	}

	adjusted := float64(currentCount)
	switch {
	case completionRate < lowCompletionRate:
		adjusted *= 0.80
	case completionRate > highCompletionRate:
		adjusted *= 1.10
	default:
		return currentCount
	}

	return clamp(int(math.Round(adjusted)))
}

func clamp(count int) int {
	if count < MinDailyWords {
		return MinDailyWords
	}
	if count > MaxDailyWords {
		return MaxDailyWords
	}
	return count
}

// Path 一条学习路径：主题词组及等长的优先级标注
type Path struct {
	Groups     []string
	Priorities []string
}

// LearningPath 按目标类型生成学习路径；
// 未知目标回退到日常会话路径而不是报错。
func LearningPath(goal model.GoalType) Path {
	switch goal {
	case model.GoalExam:
		return Path{
			Groups:     []string{"核心考点词汇", "阅读高频词汇", "写作常用词汇", "听力场景词汇"},
			Priorities: []string{"high", "high", "medium", "medium"},
		}
	case model.GoalTravel:
		return Path{
			Groups:     []string{"机场交通", "酒店住宿", "餐厅点餐", "问路购物"},
			Priorities: []string{"high", "high", "medium", "low"},
		}
	case model.GoalBusiness:
		return Path{
			Groups:     []string{"商务会议", "邮件往来", "谈判合同", "职场社交"},
			Priorities: []string{"high", "medium", "medium", "low"},
		}
	default:
		return Path{
			Groups:     []string{"日常会话", "生活场景", "兴趣爱好"},
			Priorities: []string{"high", "medium", "low"},
		}
	}
}
