package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// 单次导入文件大小上限
const maxImportSize = 5 << 20

type MCQController struct {
	MCQService *service.MCQService
}

func NewMCQController(mcqService *service.MCQService) *MCQController {
	return &MCQController{MCQService: mcqService}
}

// ListMCQs godoc
// @Summary 题目列表
// @Description 可按分类筛选，包含正确答案，仅管理员可见
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param category_id query int false "分类ID"
// @Success 200 {array} model.MCQ
// @Failure 403 {object} util.Response
// @Router /mcq [get]
func (c *MCQController) ListMCQs(ctx *gin.Context) {
	var categoryID uint
	if raw := ctx.Query("category_id"); raw != "" {
		id, err := util.ParseUintParam(raw)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		categoryID = id
	}

	mcqs, err := c.MCQService.List(ctx.Request.Context(), categoryID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, mcqs)
}

// GetMCQ godoc
// @Summary 题目详情
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} model.MCQ
// @Failure 404 {object} util.Response
// @Router /mcq/{id} [get]
func (c *MCQController) GetMCQ(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	mcq, err := c.MCQService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, mcq)
}

// CreateMCQ godoc
// @Summary 创建题目
// @Description correct_option 必须是 options 的子集
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.MCQInput true "题目"
// @Success 201 {object} model.MCQ
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "分类不存在"
// @Failure 409 {object} util.Response "题目重复"
// @Router /mcq [post]
func (c *MCQController) CreateMCQ(ctx *gin.Context) {
	var in service.MCQInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mcq, err := c.MCQService.Create(ctx.Request.Context(), util.GetUserFromContext(ctx), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, mcq)
}

// UpdateMCQ godoc
// @Summary 修改题目
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.MCQInput true "题目"
// @Success 200 {object} model.MCQ
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /mcq/{id} [put]
func (c *MCQController) UpdateMCQ(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var in service.MCQInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	mcq, err := c.MCQService.Update(ctx.Request.Context(), util.GetUserFromContext(ctx), id, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, mcq)
}

// DeleteMCQ godoc
// @Summary 删除题目
// @Tags 题目
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /mcq/{id} [delete]
func (c *MCQController) DeleteMCQ(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.MCQService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// UploadMCQs godoc
// @Summary 批量导入题目
// @Description CSV 列为 question,options,correct_option,category，列表以 | 分隔，category 可为ID或名称；逐行导入并返回报告
// @Tags 题目
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "CSV 文件"
// @Success 200 {object} service.ImportReport
// @Failure 400 {object} util.Response
// @Router /mcq/upload [post]
func (c *MCQController) UploadMCQs(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxImportSize+1<<10)
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxImportSize {
		util.BadRequest(ctx, "file is too large")
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		util.BadRequest(ctx, "only .csv files are supported")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	report, err := c.MCQService.Import(ctx.Request.Context(), util.GetUserFromContext(ctx), file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
