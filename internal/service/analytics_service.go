package service

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocab_learn_backend/internal/cache"
	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/srs"
	"vocab_learn_backend/pkg/logger"
)

const (
	// 画像统计的回看窗口
	analysisWindowDays = 30

	// 薄弱项判定阈值
	forgottenWeakRatio     = 0.40
	learningReinforceRatio = 0.60

	// 学习速度档位（每活跃日复习条数）
	fastSpeedThreshold = 30.0
	slowSpeedThreshold = 10.0
)

// TimePreference 时段占比，三项之和为1（允许浮点误差），无数据全为0
type TimePreference struct {
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Evening   float64 `json:"evening"`
}

// ProgressPoint 进度曲线上的一天
type ProgressPoint struct {
	Date            string  `json:"date"`
	CumulativeWords int     `json:"cumulativeWords"`
	MasteredWords   int     `json:"masteredWords"`
	Accuracy        float64 `json:"accuracy"`
}

// AnalyticsService 学习画像分析：时段偏好、薄弱项、学习速度、进度曲线
type AnalyticsService struct {
	ProfileRepo *repository.LearningProfileRepository
	RecordRepo  *repository.MemoryRecordRepository
	LogRepo     *repository.ReviewLogRepository
	Cache       *cache.Layer
	Cfg         *config.Config
}

func NewAnalyticsService(
	profileRepo *repository.LearningProfileRepository,
	recordRepo *repository.MemoryRecordRepository,
	logRepo *repository.ReviewLogRepository,
	cacheLayer *cache.Layer,
	cfg *config.Config,
) *AnalyticsService {
	return &AnalyticsService{
		ProfileRepo: profileRepo,
		RecordRepo:  recordRepo,
		LogRepo:     logRepo,
		Cache:       cacheLayer,
		Cfg:         cfg,
	}
}

// GetProfile 用户学习画像，首次访问惰性建档。带快照缓存。
func (s *AnalyticsService) GetProfile(ctx context.Context, userID uint) (*model.LearningProfile, error) {
	key := cache.ProfileKey(userID)

	var cached model.LearningProfile
	if cache.GetJSON(ctx, s.Cache.Store(), key, &cached) && cached.ID != 0 {
		return &cached, nil
	}

	profile, err := s.ProfileRepo.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = &model.LearningProfile{
			UserID:     userID,
			SpeedTrend: model.SpeedNormal,
			WeakAreas:  model.WeakAreaList{},
		}
		if err := s.ProfileRepo.Create(profile); err != nil {
			return nil, err
		}
	}

	cache.SetJSON(ctx, s.Cache.Store(), key, profile, s.Cfg.Cache.SnapshotTTL())
	return profile, nil
}

// RefreshProfile 从原始行为流水重算画像并写通缓存
func (s *AnalyticsService) RefreshProfile(ctx context.Context, userID uint) (*model.LearningProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := now.AddDate(0, 0, -analysisWindowDays)
	logs, err := s.LogRepo.FindByUserSince(userID, since)
	if err != nil {
		return nil, err
	}

	statuses, err := s.RecordRepo.FindStatusByCategory(userID)
	if err != nil {
		return nil, err
	}

	prefs := timePreferences(reviewTimes(logs))
	profile.MorningRatio = prefs.Morning
	profile.AfternoonRatio = prefs.Afternoon
	profile.EveningRatio = prefs.Evening
	profile.WeakAreas = weakAreas(statuses)
	profile.AvgDailyWords = learningSpeed(logs)
	profile.AvgAccuracy = overallAccuracy(logs)
	profile.SpeedTrend = speedTrend(profile.AvgDailyWords)
	profile.LastAnalyzedAt = &now

	err = s.Cache.WriteThrough(ctx, cache.ProfileKey(userID), profile, s.Cfg.Cache.SnapshotTTL(), func() error {
		return s.ProfileRepo.Update(profile)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RefreshActiveProfiles 刷新窗口期内有学习行为的全部用户画像，单个失败不中断
func (s *AnalyticsService) RefreshActiveProfiles(ctx context.Context, now time.Time) {
	ids, err := s.LogRepo.ActiveUserIDs(now.AddDate(0, 0, -analysisWindowDays))
	if err != nil {
		logger.Log.Error("profile refresh: list active users failed", zap.Error(err))
		return
	}
	for _, userID := range ids {
		if _, err := s.RefreshProfile(ctx, userID); err != nil {
			logger.Log.Warn("profile refresh failed for user",
				zap.Uint("userId", userID), zap.Error(err))
		}
	}
}

// GetProgressCurve 最近 days 天的进度曲线，恰好 days 个点
func (s *AnalyticsService) GetProgressCurve(userID uint, days int) ([]ProgressPoint, error) {
	if days <= 0 {
		days = 7
	}
	logs, err := s.LogRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return progressCurve(logs, days, time.Now()), nil
}

func reviewTimes(logs []model.ReviewLog) []time.Time {
	return lo.Map(logs, func(l model.ReviewLog, _ int) time.Time { return l.ReviewedAt })
}

// timePreferences 按小时分桶：早晨05–11，下午12–17，晚间18–04。
// 返回各时段占比，非空输入之和为1，空输入全为0。
func timePreferences(times []time.Time) TimePreference {
	if len(times) == 0 {
		return TimePreference{}
	}

	var morning, afternoon, evening int
	for _, t := range times {
		switch hour := t.Hour(); {
		case hour >= 5 && hour <= 11:
			morning++
		case hour >= 12 && hour <= 17:
			afternoon++
		default:
			evening++
		}
	}

	total := float64(len(times))
	return TimePreference{
		Morning:   float64(morning) / total,
		Afternoon: float64(afternoon) / total,
		Evening:   float64(evening) / total,
	}
}

// weakAreas 按分类统计记忆状态分布：
// 遗忘占比超40%判为薄弱，学习中占比超60%判为待加强。空输入返回空列表。
func weakAreas(rows []repository.CategoryStatus) model.WeakAreaList {
	areas := model.WeakAreaList{}
	grouped := lo.GroupBy(rows, func(r repository.CategoryStatus) string { return r.Category })

	for _, category := range lo.Keys(grouped) {
		group := grouped[category]
		total := float64(len(group))
		forgotten := float64(lo.CountBy(group, func(r repository.CategoryStatus) bool {
			return r.Status == srs.StatusForgotten
		}))
		learning := float64(lo.CountBy(group, func(r repository.CategoryStatus) bool {
			return r.Status == srs.StatusLearning
		}))

		switch {
		case forgotten/total > forgottenWeakRatio:
			areas = append(areas, model.WeakArea{
				Category: category,
				Rate:     forgotten / total,
				Kind:     model.WeakKindForgotten,
			})
		case learning/total > learningReinforceRatio:
			areas = append(areas, model.WeakArea{
				Category: category,
				Rate:     learning / total,
				Kind:     model.WeakKindReinforce,
			})
		}
	}
	return areas
}

// learningSpeed 平均每个活跃日的复习条数，空输入为0
func learningSpeed(logs []model.ReviewLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	days := lo.Uniq(lo.Map(logs, func(l model.ReviewLog, _ int) string {
		return l.ReviewedAt.Format("2006-01-02")
	}))
	return float64(len(logs)) / float64(len(days))
}

func overallAccuracy(logs []model.ReviewLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	correct := lo.CountBy(logs, func(l model.ReviewLog) bool { return l.Correct })
	return float64(correct) / float64(len(logs))
}

// speedTrend 学习速度分档
func speedTrend(avgDaily float64) model.SpeedTrend {
	switch {
	case avgDaily >= fastSpeedThreshold:
		return model.SpeedFast
	case avgDaily > 0 && avgDaily < slowSpeedThreshold:
		return model.SpeedSlow
	default:
		return model.SpeedNormal
	}
}

// progressCurve 回放复习流水生成最近 days 天的进度曲线：
// 累计接触词数与累计掌握词数逐日非降，正确率为截至当日的累计正确率。
// 掌握判定按流水重放掌握度转移，一旦达标即计入（后续遗忘不回退曲线）。
func progressCurve(logs []model.ReviewLog, days int, now time.Time) []ProgressPoint {
	points := make([]ProgressPoint, 0, days)
	start := truncateToDay(now).AddDate(0, 0, -(days - 1))

	mastery := make(map[uint]int)
	seen := make(map[uint]bool)
	mastered := make(map[uint]bool)
	var total, correct int
	idx := 0

	// 窗口前的历史先回放掉，曲线第一个点就是当时的累计状态
	replay := func(until time.Time) {
		for idx < len(logs) && logs[idx].ReviewedAt.Before(until) {
			l := logs[idx]
			seen[l.WordID] = true
			mastery[l.WordID] = srs.UpdateMastery(mastery[l.WordID], l.Correct)
			if mastery[l.WordID] >= srs.MasteredThreshold {
				mastered[l.WordID] = true
			}
			total++
			if l.Correct {
				correct++
			}
			idx++
		}
	}

	for day := 0; day < days; day++ {
		dayEnd := start.AddDate(0, 0, day+1)
		replay(dayEnd)

		accuracy := 0.0
		if total > 0 {
			accuracy = float64(correct) / float64(total)
		}
		points = append(points, ProgressPoint{
			Date:            start.AddDate(0, 0, day).Format("2006-01-02"),
			CumulativeWords: len(seen),
			MasteredWords:   len(mastered),
			Accuracy:        accuracy,
		})
	}
	return points
}
