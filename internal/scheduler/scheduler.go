package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/pkg/logger"
)

const (
	defaultAdjustmentAt     = "02:30"
	defaultProfileRefreshAt = "03:30"
	defaultTaskPregenAt     = "00:10"
	defaultSweepMinutes     = 60

	// 缓存巡检只看最近一天有学习行为的用户
	sweepActivityWindow = 24 * time.Hour
)

// Scheduler 后台周期任务：夜间计划调整、画像刷新、到期队列缓存巡检
type Scheduler struct {
	scheduler *gocron.Scheduler
	plans     *service.PlanService
	analytics *service.AnalyticsService
	reviews   *service.ReviewService
	cfg       *config.Config
}

func New(
	plans *service.PlanService,
	analytics *service.AnalyticsService,
	reviews *service.ReviewService,
	cfg *config.Config,
) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		plans:     plans,
		analytics: analytics,
		reviews:   reviews,
		cfg:       cfg,
	}
}

// Start 注册全部周期任务并异步启动
func (s *Scheduler) Start() error {
	adjustAt := s.cfg.Scheduler.AdjustmentAt
	if adjustAt == "" {
		adjustAt = defaultAdjustmentAt
	}
	if _, err := s.scheduler.Every(1).Day().At(adjustAt).Do(s.runPlanAdjustment); err != nil {
		return err
	}

	refreshAt := s.cfg.Scheduler.ProfileRefreshAt
	if refreshAt == "" {
		refreshAt = defaultProfileRefreshAt
	}
	if _, err := s.scheduler.Every(1).Day().At(refreshAt).Do(s.runProfileRefresh); err != nil {
		return err
	}

	pregenAt := s.cfg.Scheduler.TaskPregenAt
	if pregenAt == "" {
		pregenAt = defaultTaskPregenAt
	}
	if _, err := s.scheduler.Every(1).Day().At(pregenAt).Do(s.runTaskPregeneration); err != nil {
		return err
	}

	sweepMinutes := s.cfg.Scheduler.CacheSweepMinutes
	if sweepMinutes <= 0 {
		sweepMinutes = defaultSweepMinutes
	}
	if _, err := s.scheduler.Every(sweepMinutes).Minutes().Do(s.runCacheSweep); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.Log.Info("scheduler started",
		zap.String("adjustmentAt", adjustAt),
		zap.String("profileRefreshAt", refreshAt),
		zap.String("taskPregenAt", pregenAt),
		zap.Int("cacheSweepMinutes", sweepMinutes))
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) runPlanAdjustment() {
	logger.Log.Info("nightly plan adjustment cycle started")
	s.plans.AdjustAllActivePlans(context.Background(), time.Now())
}

func (s *Scheduler) runTaskPregeneration() {
	logger.Log.Info("daily task pregeneration started")
	s.plans.PregenerateAllDailyTasks(context.Background(), time.Now())
}

func (s *Scheduler) runProfileRefresh() {
	logger.Log.Info("profile refresh cycle started")
	s.analytics.RefreshActiveProfiles(context.Background(), time.Now())
}

// runCacheSweep 对近期活跃用户的到期队列快照做检测修复
func (s *Scheduler) runCacheSweep() {
	ctx := context.Background()
	ids, err := s.analytics.LogRepo.ActiveUserIDs(time.Now().Add(-sweepActivityWindow))
	if err != nil {
		logger.Log.Error("cache sweep: list active users failed", zap.Error(err))
		return
	}
	repaired := 0
	for _, userID := range ids {
		ok, err := s.reviews.RepairDueCache(ctx, userID)
		if err != nil {
			logger.Log.Warn("cache sweep failed for user", zap.Uint("userId", userID), zap.Error(err))
			continue
		}
		if ok {
			repaired++
		}
	}
	if repaired > 0 {
		logger.Log.Info("cache sweep repaired stale snapshots", zap.Int("repaired", repaired))
	}
}
