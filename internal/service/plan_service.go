package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocab_learn_backend/internal/cache"
	"vocab_learn_backend/internal/config"
	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/planner"
	"vocab_learn_backend/internal/repository"
	"vocab_learn_backend/internal/util"
	"vocab_learn_backend/pkg/logger"
	"vocab_learn_backend/pkg/monitoring"
)

// 完成率滑动窗口天数
const adjustmentWindowDays = 7

// 每日复习任务的目标条数上限
const maxReviewTaskItems = 100

// PlanService 学习计划：创建、查询、每日任务生成与任务量自适应调整
type PlanService struct {
	PlanRepo    *repository.StudyPlanRepository
	TaskRepo    *repository.DailyTaskRepository
	ProfileRepo *repository.LearningProfileRepository
	WordRepo    *repository.WordRepository
	RecordRepo  *repository.MemoryRecordRepository
	Cache       *cache.Layer
	Cfg         *config.Config
}

func NewPlanService(
	planRepo *repository.StudyPlanRepository,
	taskRepo *repository.DailyTaskRepository,
	profileRepo *repository.LearningProfileRepository,
	wordRepo *repository.WordRepository,
	recordRepo *repository.MemoryRecordRepository,
	cacheLayer *cache.Layer,
	cfg *config.Config,
) *PlanService {
	return &PlanService{
		PlanRepo:    planRepo,
		TaskRepo:    taskRepo,
		ProfileRepo: profileRepo,
		WordRepo:    wordRepo,
		RecordRepo:  recordRepo,
		Cache:       cacheLayer,
		Cfg:         cfg,
	}
}

// CreatePlanInput 新建计划入参
type CreatePlanInput struct {
	GoalType        model.GoalType
	TargetDate      time.Time
	TargetWordCount int
}

// CreatePlan 新建学习计划：按目标类型生成学习路径，按画像计算初始每日任务量，
// 旧的生效计划置为非活跃。写通缓存。
func (s *PlanService) CreatePlan(ctx context.Context, userID uint, input CreatePlanInput) (*model.StudyPlan, error) {
	now := time.Now()
	remainingDays := remainingDaysUntil(input.TargetDate, now)

	path := planner.LearningPath(input.GoalType)
	snapshot := s.profileSnapshot(userID)
	daily := planner.DailyTaskCount(snapshot, remainingDays, input.TargetWordCount)

	plan := &model.StudyPlan{
		UserID:            userID,
		GoalType:          input.GoalType,
		TargetDate:        input.TargetDate,
		TargetWordCount:   input.TargetWordCount,
		DailyWordCount:    daily,
		Phase:             model.PhaseBeginner,
		WordGroups:        path.Groups,
		GroupPriorities:   path.Priorities,
		AdjustmentHistory: model.AdjustmentHistory{},
		Active:            true,
	}

	err := s.Cache.WriteThrough(ctx, cache.PlanKey(userID), plan, s.Cfg.Cache.SnapshotTTL(), func() error {
		if err := s.PlanRepo.DeactivateByUser(userID); err != nil {
			return err
		}
		return s.PlanRepo.Create(plan)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("study plan created",
		zap.Uint("userId", userID),
		zap.String("goal", string(input.GoalType)),
		zap.Int("dailyWordCount", daily))
	return plan, nil
}

// GetActivePlan 当前生效计划，带快照缓存
func (s *PlanService) GetActivePlan(ctx context.Context, userID uint) (*model.StudyPlan, error) {
	key := cache.PlanKey(userID)

	var cached model.StudyPlan
	if cache.GetJSON(ctx, s.Cache.Store(), key, &cached) && cached.ID != 0 {
		return &cached, nil
	}

	plan, err := s.PlanRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoActivePlan
		}
		return nil, err
	}

	cache.SetJSON(ctx, s.Cache.Store(), key, plan, s.Cfg.Cache.SnapshotTTL())
	return plan, nil
}

// GenerateDailyTasks 为某天生成任务，同一天重复调用不重复生成：
// 新词任务按计划任务量，复习任务按当前到期数量，画像存在薄弱项时追加薄弱专项。
func (s *PlanService) GenerateDailyTasks(ctx context.Context, userID uint, date time.Time) ([]model.DailyTask, error) {
	plan, err := s.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.TaskRepo.FindByUserAndDate(userID, date)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	unseen, err := s.WordRepo.FindUnseenByUser(userID, plan.WordGroups, plan.DailyWordCount)
	if err != nil {
		return nil, err
	}

	dueCount, err := s.RecordRepo.CountDue(userID, time.Now())
	if err != nil {
		return nil, err
	}

	hasWeakAreas := false
	if profile, err := s.ProfileRepo.FindByUser(userID); err == nil {
		hasWeakAreas = profile.HasWeakAreas()
	}

	tasks := buildDailyTasks(plan.ID, userID, day, plan.DailyWordCount, len(unseen), int(dueCount), hasWeakAreas)

	// 整批事务落库并有界重试：部分成功会让这一天永远缺任务
	if err := s.Cache.PersistWithRetry(func() error { return s.TaskRepo.CreateBatch(tasks) }); err != nil {
		return nil, err
	}

	result := make([]model.DailyTask, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, *task)
	}

	s.Cache.Invalidate(ctx, cache.DailyTasksKey(userID, day))
	return result, nil
}

// buildDailyTasks 组装一天的任务集合：新词任务恒有（词库覆盖不到时按计划量保底），
// 复习任务仅在有到期词时生成并封顶，画像有薄弱项时追加薄弱专项（计划量一半，至少1条）。
func buildDailyTasks(planID, userID uint, day time.Time, dailyWordCount, unseenCount, dueCount int, hasWeakAreas bool) []*model.DailyTask {
	vocabItems := unseenCount
	if vocabItems == 0 {
		vocabItems = dailyWordCount
	}
	tasks := []*model.DailyTask{
		{
			PlanID:     planID,
			UserID:     userID,
			TaskDate:   day,
			TaskType:   model.TaskVocabulary,
			TotalItems: vocabItems,
			Status:     model.TaskPending,
		},
	}

	if dueCount > 0 {
		if dueCount > maxReviewTaskItems {
			dueCount = maxReviewTaskItems
		}
		tasks = append(tasks, &model.DailyTask{
			PlanID:     planID,
			UserID:     userID,
			TaskDate:   day,
			TaskType:   model.TaskReview,
			TotalItems: dueCount,
			Status:     model.TaskPending,
		})
	}

	if hasWeakAreas {
		items := dailyWordCount / 2
		if items < 1 {
			items = 1
		}
		tasks = append(tasks, &model.DailyTask{
			PlanID:     planID,
			UserID:     userID,
			TaskDate:   day,
			TaskType:   model.TaskWeakArea,
			TotalItems: items,
			Status:     model.TaskPending,
		})
	}
	return tasks
}

// GetDailyTasks 某天的任务列表，带快照缓存；当天尚无任务时顺带生成
func (s *PlanService) GetDailyTasks(ctx context.Context, userID uint, date time.Time) ([]model.DailyTask, error) {
	key := cache.DailyTasksKey(userID, date)

	var cached []model.DailyTask
	if cache.GetJSON(ctx, s.Cache.Store(), key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	tasks, err := s.GenerateDailyTasks(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	cache.SetJSON(ctx, s.Cache.Store(), key, tasks, s.Cfg.Cache.SnapshotTTL())
	return tasks, nil
}

// MarkTaskProgress 推进任务完成数并重推任务状态；完成数只增不减。
func (s *PlanService) MarkTaskProgress(ctx context.Context, userID, taskID uint, completedItems int) (*model.DailyTask, error) {
	task, err := s.TaskRepo.FindByIDAndUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}

	if completedItems > task.TotalItems {
		completedItems = task.TotalItems
	}
	if completedItems > task.CompletedItems {
		task.CompletedItems = completedItems
	}
	task.DeriveStatus(time.Now())

	if err := s.Cache.PersistWithRetry(func() error { return s.TaskRepo.Update(task) }); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, cache.DailyTasksKey(userID, task.TaskDate))
	return task, nil
}

// AdjustPlan 按近7天任务完成率自适应调整每日任务量。
// 发生调整时写入调整历史（最新在前，最多10条）并刷新计划缓存。
// 返回调整后的计划与是否发生了调整。
func (s *PlanService) AdjustPlan(ctx context.Context, userID uint, now time.Time) (*model.StudyPlan, bool, error) {
	plan, err := s.PlanRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrNoActivePlan
		}
		return nil, false, err
	}

	start := now.AddDate(0, 0, -adjustmentWindowDays)
	tasks, err := s.TaskRepo.FindByUserAndDateRange(userID, start, now)
	if err != nil {
		return nil, false, err
	}
	if len(tasks) == 0 {
		// 窗口内没有任务，没有调整依据
		return plan, false, nil
	}

	rate := taskCompletionRate(tasks)
	plan.CompletionRate = rate

	newCount := planner.AdjustDifficulty(rate, plan.DailyWordCount)
	if newCount == plan.DailyWordCount {
		// 无需调整，只刷新完成率；快照同步写通，避免缓存停在旧完成率上
		err = s.Cache.WriteThrough(ctx, cache.PlanKey(userID), plan, s.Cfg.Cache.SnapshotTTL(), func() error {
			return s.PlanRepo.Update(plan)
		})
		if err != nil {
			return nil, false, err
		}
		return plan, false, nil
	}

	direction := "down"
	if newCount > plan.DailyWordCount {
		direction = "up"
	}
	plan.AdjustmentHistory.Push(model.PlanAdjustment{
		AdjustedAt:     now,
		CompletionRate: rate,
		OldCount:       plan.DailyWordCount,
		NewCount:       newCount,
		Reason:         fmt.Sprintf("completion rate %.2f over last %d days", rate, adjustmentWindowDays),
	})
	plan.DailyWordCount = newCount

	err = s.Cache.WriteThrough(ctx, cache.PlanKey(userID), plan, s.Cfg.Cache.SnapshotTTL(), func() error {
		return s.PlanRepo.Update(plan)
	})
	if err != nil {
		return nil, false, err
	}

	monitoring.PlanAdjustments.WithLabelValues(direction).Inc()
	logger.Log.Info("plan difficulty adjusted",
		zap.Uint("userId", userID),
		zap.Float64("completionRate", rate),
		zap.Int("newDailyWordCount", newCount))
	return plan, true, nil
}

// AdjustAllActivePlans 遍历全部生效计划做夜间调整，单个失败不中断
func (s *PlanService) AdjustAllActivePlans(ctx context.Context, now time.Time) {
	plans, err := s.PlanRepo.FindAllActive()
	if err != nil {
		logger.Log.Error("nightly adjustment: list active plans failed", zap.Error(err))
		return
	}
	for _, plan := range plans {
		if _, _, err := s.AdjustPlan(ctx, plan.UserID, now); err != nil {
			logger.Log.Warn("nightly adjustment failed for user",
				zap.Uint("userId", plan.UserID), zap.Error(err))
		}
	}
}

// PregenerateAllDailyTasks 为全部生效计划预生成当天任务，单个失败不中断。
// 生成本身是幂等的，用户白天首次访问时命中已有任务。
func (s *PlanService) PregenerateAllDailyTasks(ctx context.Context, now time.Time) {
	plans, err := s.PlanRepo.FindAllActive()
	if err != nil {
		logger.Log.Error("task pregeneration: list active plans failed", zap.Error(err))
		return
	}
	for _, plan := range plans {
		if _, err := s.GenerateDailyTasks(ctx, plan.UserID, now); err != nil {
			logger.Log.Warn("task pregeneration failed for user",
				zap.Uint("userId", plan.UserID), zap.Error(err))
		}
	}
}

func (s *PlanService) profileSnapshot(userID uint) planner.ProfileSnapshot {
	profile, err := s.ProfileRepo.FindByUser(userID)
	if err != nil {
		// 画像缺失按普通速度、合格正确率处理
		return planner.ProfileSnapshot{SpeedTrend: model.SpeedNormal, AvgAccuracy: 1}
	}
	return planner.ProfileSnapshot{SpeedTrend: profile.SpeedTrend, AvgAccuracy: profile.AvgAccuracy}
}

// taskCompletionRate 窗口内任务的条目加权完成率，条目总数为0时视为满完成
func taskCompletionRate(tasks []model.DailyTask) float64 {
	total := lo.SumBy(tasks, func(t model.DailyTask) int { return t.TotalItems })
	if total == 0 {
		return 1
	}
	completed := lo.SumBy(tasks, func(t model.DailyTask) int { return t.CompletedItems })
	return float64(completed) / float64(total)
}

// remainingDaysUntil 目标日期距今的整天数，至少为1
func remainingDaysUntil(target, now time.Time) int {
	days := int(target.Sub(now).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
