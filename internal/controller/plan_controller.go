package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/internal/util"
)

type PlanController struct {
	PlanService *service.PlanService
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{PlanService: planService}
}

// CreatePlanRequest 新建学习计划请求
// swagger:model CreatePlanRequest
type CreatePlanRequest struct {
	GoalType        string    `json:"goalType" binding:"required"`
	TargetDate      time.Time `json:"targetDate" binding:"required"`
	TargetWordCount int       `json:"targetWordCount" binding:"required,min=1"`
}

// CreatePlan godoc
// @Summary 创建学习计划
// @Description 按目标类型生成学习路径并计算初始每日任务量，旧计划自动失效
// @Tags 学习计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreatePlanRequest true "计划目标"
// @Success 201 {object} util.Response{data=model.StudyPlan} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/plans [post]
func (c *PlanController) CreatePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.CreatePlan(ctx.Request.Context(), claims.UserID, service.CreatePlanInput{
		GoalType:        model.GoalType(req.GoalType),
		TargetDate:      req.TargetDate,
		TargetWordCount: req.TargetWordCount,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, plan)
}

// GetActivePlan godoc
// @Summary 获取当前生效计划
// @Tags 学习计划
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.StudyPlan} "成功"
// @Failure 404 {object} util.Response "当前没有生效计划"
// @Router /api/plans/active [get]
func (c *PlanController) GetActivePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.PlanService.GetActivePlan(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActivePlan) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, plan)
}

// AdjustPlan godoc
// @Summary 按近期完成率调整任务量
// @Description 读取近7天任务完成率并自适应调整每日任务量，调整历史最多保留10条
// @Tags 学习计划
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "当前没有生效计划"
// @Router /api/plans/adjust [post]
func (c *PlanController) AdjustPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, adjusted, err := c.PlanService.AdjustPlan(ctx.Request.Context(), claims.UserID, time.Now())
	if err != nil {
		if errors.Is(err, util.ErrNoActivePlan) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"plan": plan, "adjusted": adjusted})
}

// GetDailyTasks godoc
// @Summary 获取某天的学习任务
// @Description 当天尚无任务时按计划生成，同一天重复调用不重复生成
// @Tags 学习计划
// @Produce  json
// @Security ApiKeyAuth
// @Param   date query string false "日期 2006-01-02，默认今天"
// @Success 200 {object} util.Response{data=[]model.DailyTask} "成功"
// @Failure 404 {object} util.Response "当前没有生效计划"
// @Router /api/tasks [get]
func (c *PlanController) GetDailyTasks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	date := time.Now()
	if raw := ctx.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			util.BadRequest(ctx, "日期格式应为 2006-01-02")
			return
		}
		date = parsed
	}

	tasks, err := c.PlanService.GetDailyTasks(ctx.Request.Context(), claims.UserID, date)
	if err != nil {
		if errors.Is(err, util.ErrNoActivePlan) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, tasks)
}

// TaskProgressRequest 任务进度上报
// swagger:model TaskProgressRequest
type TaskProgressRequest struct {
	CompletedItems int `json:"completedItems" binding:"min=0"`
}

// MarkTaskProgress godoc
// @Summary 上报任务完成进度
// @Description 完成数只增不减，达到总数时任务记为已完成
// @Tags 学习计划
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   body body TaskProgressRequest true "完成进度"
// @Success 200 {object} util.Response{data=model.DailyTask} "成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id}/progress [put]
func (c *PlanController) MarkTaskProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的任务ID")
		return
	}

	var req TaskProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.PlanService.MarkTaskProgress(ctx.Request.Context(), claims.UserID, uint(taskID), req.CompletedItems)
	if err != nil {
		if errors.Is(err, util.ErrTaskNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, task)
}
