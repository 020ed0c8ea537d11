package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/internal/util"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
	StreakService    *service.StreakService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService, streakService *service.StreakService) *AnalyticsController {
	return &AnalyticsController{
		AnalyticsService: analyticsService,
		StreakService:    streakService,
	}
}

// GetLearningProfile godoc
// @Summary 获取学习画像
// @Description 时段偏好、薄弱项、学习速度等分析结果，首次访问自动建档
// @Tags 学习分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningProfile} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/analytics/profile [get]
func (c *AnalyticsController) GetLearningProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.AnalyticsService.GetProfile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// RefreshLearningProfile godoc
// @Summary 重算学习画像
// @Description 从原始复习流水重算时段偏好、薄弱项与学习速度
// @Tags 学习分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningProfile} "成功"
// @Router /api/analytics/profile/refresh [post]
func (c *AnalyticsController) RefreshLearningProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.AnalyticsService.RefreshProfile(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// GetProgressCurve godoc
// @Summary 获取学习进度曲线
// @Description 最近N天的累计接触词数、累计掌握词数与累计正确率
// @Tags 学习分析
// @Produce  json
// @Security ApiKeyAuth
// @Param   days query int false "天数，默认7"
// @Success 200 {object} util.Response{data=[]service.ProgressPoint} "成功"
// @Router /api/analytics/progress [get]
func (c *AnalyticsController) GetProgressCurve(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "7"))
	points, err := c.AnalyticsService.GetProgressCurve(claims.UserID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, points)
}

// GetStreak godoc
// @Summary 获取连续学习天数
// @Tags 学习分析
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningStreak} "成功"
// @Router /api/analytics/streak [get]
func (c *AnalyticsController) GetStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.StreakService.GetStreak(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, streak)
}
