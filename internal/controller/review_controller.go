package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/internal/util"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// SubmitReviewRequest 提交复习请求
// swagger:model SubmitReviewRequest
type SubmitReviewRequest struct {
	WordID  uint  `json:"wordId" binding:"required"`
	Correct *bool `json:"correct" binding:"required"`
}

// SubmitReview godoc
// @Summary 提交一次复习结果
// @Description 更新该词的掌握度、记忆状态与下次复习时间，并立即失效到期队列缓存
// @Tags 复习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitReviewRequest true "复习结果"
// @Success 200 {object} util.Response{data=model.MemoryRecord} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "词条不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/reviews [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.ReviewService.SubmitReview(ctx.Request.Context(), claims.UserID, req.WordID, *req.Correct)
	if err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, record)
}

// GetDueReviews godoc
// @Summary 获取到期复习队列
// @Description 逾期最久的在前，同一到期时间掌握度低的在前，结果按用户缓存
// @Tags 复习
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "最多返回条数，默认20"
// @Success 200 {object} util.Response{data=[]model.MemoryRecord} "成功"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/reviews/due [get]
func (c *ReviewController) GetDueReviews(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	records, err := c.ReviewService.GetDueReviews(ctx.Request.Context(), claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// CountDue godoc
// @Summary 当前到期复习数量
// @Tags 复习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/reviews/due/count [get]
func (c *ReviewController) CountDue(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	count, err := c.ReviewService.CountDue(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"count": count})
}

// RepairCache godoc
// @Summary 修复到期队列缓存快照
// @Description 以持久层为准比对并修复该用户的到期队列缓存
// @Tags 复习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/reviews/cache/repair [post]
func (c *ReviewController) RepairCache(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	repaired, err := c.ReviewService.RepairDueCache(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"repaired": repaired})
}
