package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"vocab_learn_backend/internal/model"
	"vocab_learn_backend/internal/service"
	"vocab_learn_backend/internal/util"
)

type VocabController struct {
	VocabService *service.VocabService
}

func NewVocabController(vocabService *service.VocabService) *VocabController {
	return &VocabController{VocabService: vocabService}
}

// ListWords godoc
// @Summary 词库列表
// @Tags 词库
// @Produce  json
// @Security ApiKeyAuth
// @Param   category query string false "分类过滤"
// @Param   search query string false "拼写搜索"
// @Param   page query int false "页码，默认1"
// @Param   limit query int false "每页条数，默认20"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/words [get]
func (c *VocabController) ListWords(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	words, total, err := c.VocabService.ListWords(ctx.Query("category"), ctx.Query("search"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  words,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetWord godoc
// @Summary 词条详情
// @Tags 词库
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response{data=model.Word} "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/words/{id} [get]
func (c *VocabController) GetWord(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的词条ID")
		return
	}

	word, err := c.VocabService.GetWord(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, word)
}

// WordRequest 词条维护请求
// swagger:model WordRequest
type WordRequest struct {
	Spelling   string `json:"spelling" binding:"required"`
	Phonetic   string `json:"phonetic"`
	Meaning    string `json:"meaning" binding:"required"`
	Example    string `json:"example"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// CreateWord godoc
// @Summary 新增词条
// @Tags 词库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body WordRequest true "词条信息"
// @Success 201 {object} util.Response{data=model.Word} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/words [post]
func (c *VocabController) CreateWord(ctx *gin.Context) {
	var req WordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	word := &model.Word{
		Spelling:   req.Spelling,
		Phonetic:   req.Phonetic,
		Meaning:    req.Meaning,
		Example:    req.Example,
		Category:   req.Category,
		Difficulty: req.Difficulty,
	}
	if err := c.VocabService.CreateWord(word); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, word)
}

// UpdateWord godoc
// @Summary 更新词条
// @Tags 词库
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "词条ID"
// @Param   body body WordRequest true "词条信息"
// @Success 200 {object} util.Response{data=model.Word} "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/admin/words/{id} [put]
func (c *VocabController) UpdateWord(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的词条ID")
		return
	}

	var req WordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	word := &model.Word{
		Spelling:   req.Spelling,
		Phonetic:   req.Phonetic,
		Meaning:    req.Meaning,
		Example:    req.Example,
		Category:   req.Category,
		Difficulty: req.Difficulty,
	}
	word.ID = uint(id)

	if err := c.VocabService.UpdateWord(word); err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, word)
}

// ImportWords godoc
// @Summary 批量导入词条
// @Description 上传xlsx文件批量导入，列约定 A拼写 B音标 C释义 D例句 E分类 F难度
// @Tags 词库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "xlsx文件"
// @Success 200 {object} util.Response{data=service.ImportResult} "成功"
// @Failure 400 {object} util.Response "文件无效"
// @Router /api/admin/words/import [post]
func (c *VocabController) ImportWords(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, "无法读取上传文件")
		return
	}
	defer file.Close()

	result, err := c.VocabService.ImportFromExcel(file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, result)
}

// UploadAudio godoc
// @Summary 上传词条发音音频
// @Tags 词库
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "词条ID"
// @Param   file formData file true "音频文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/admin/words/{id}/audio [post]
func (c *VocabController) UploadAudio(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的词条ID")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	url, err := c.VocabService.UploadAudio(ctx.Request.Context(), uint(id), fileHeader)
	if err != nil {
		if errors.Is(err, util.ErrWordNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"audioUrl": url})
}
