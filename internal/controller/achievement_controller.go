package controller

import (
	"github.com/gin-gonic/gin"

	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/internal/util"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// ListAchievements godoc
// @Summary 成就目录及解锁状态
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/achievements [get]
func (c *AchievementController) ListAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	defs, unlocked, err := c.AchievementService.ListAll(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	type achievementView struct {
		ID        uint   `json:"id"`
		Name      string `json:"name"`
		Icon      string `json:"icon"`
		Category  string `json:"category"`
		Threshold int    `json:"threshold"`
		Unlocked  bool   `json:"unlocked"`
	}
	views := make([]achievementView, 0, len(defs))
	for _, def := range defs {
		views = append(views, achievementView{
			ID:        def.ID,
			Name:      def.Name,
			Icon:      def.Icon,
			Category:  string(def.Category),
			Threshold: def.Threshold,
			Unlocked:  unlocked[def.ID],
		})
	}

	util.Success(ctx, views)
}

// ListUnlocked godoc
// @Summary 已解锁成就
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserAchievement} "成功"
// @Router /api/achievements/unlocked [get]
func (c *AchievementController) ListUnlocked(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rows, err := c.AchievementService.ListUnlocked(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}
