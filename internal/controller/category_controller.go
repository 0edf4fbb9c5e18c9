package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	CategoryService *service.CategoryService
}

func NewCategoryController(categoryService *service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

// swagger:model CategoryRequest
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 分类
// @Produce json
// @Success 200 {array} model.Category
// @Router /category [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.CategoryService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// GetCategory godoc
// @Summary 分类详情
// @Tags 分类
// @Produce json
// @Param id path int true "分类ID"
// @Success 200 {object} model.Category
// @Failure 404 {object} util.Response
// @Router /category/{id} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	category, err := c.CategoryService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// CreateCategory godoc
// @Summary 创建分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CategoryRequest true "分类"
// @Success 201 {object} model.Category
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response "名称已存在"
// @Router /category [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CategoryService.Create(ctx.Request.Context(), util.GetUserFromContext(ctx), req.Name)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// UpdateCategory godoc
// @Summary 修改分类
// @Tags 分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分类ID"
// @Param body body CategoryRequest true "分类"
// @Success 200 {object} model.Category
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /category/{id} [put]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CategoryService.Update(ctx.Request.Context(), util.GetUserFromContext(ctx), id, req.Name)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// DeleteCategory godoc
// @Summary 删除分类
// @Description 分类下仍有题目时返回 409
// @Tags 分类
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "分类ID"
// @Success 200 {object} util.MessageResponse
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /category/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.CategoryService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.MessageResponse{Message: "Category deleted successfully"})
}
