package controller

import (
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func parseAttemptID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, util.Validationf("invalid attempt id %q", raw)
	}
	return id, nil
}

// StartQuiz godoc
// @Summary 开始答题
// @Description 从分类中随机抽取至多 25 道题，返回 attempt_id，不含正确答案
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param category_id query int true "分类ID"
// @Success 200 {object} service.StartQuizResponse
// @Failure 404 {object} util.Response "分类不存在或没有题目"
// @Router /quiz/start [post]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	categoryID, err := util.ParseUintParam(ctx.Query("category_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	resp, err := c.QuizService.StartQuiz(ctx.Request.Context(), util.GetUserFromContext(ctx), categoryID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// SubmitQuiz godoc
// @Summary 提交答题
// @Description 空答案计为未作答；同一 attempt_id 重复提交返回 409
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitQuizRequest true "答案"
// @Success 200 {object} service.QuizSummary
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "分类不存在"
// @Failure 409 {object} util.Response "重复提交"
// @Router /quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	var req service.SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	summary, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), util.GetUserFromContext(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ListAttempts godoc
// @Summary 答题记录
// @Description 管理员返回全部记录，普通用户返回自己的记录
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} model.QuizAttempt
// @Router /quiz/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.QuizService.GetUserAttempts(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// GetAttempt godoc
// @Summary 答题详情
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param attempt_id path int true "attempt_id"
// @Success 200 {object} service.AttemptDetail
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quiz/attempts/{attempt_id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	attemptID, err := parseAttemptID(ctx.Param("attempt_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	detail, err := c.QuizService.GetAttemptDetail(ctx.Request.Context(), util.GetUserFromContext(ctx), attemptID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// DeleteAttemptQuestions godoc
// @Summary 清理答题题目记录
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param attempt_id path int true "attempt_id"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} util.Response
// @Router /quiz/attempts/{attempt_id}/questions [delete]
func (c *QuizController) DeleteAttemptQuestions(ctx *gin.Context) {
	attemptID, err := parseAttemptID(ctx.Param("attempt_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	deleted, err := c.QuizService.DeleteAttemptQuestions(ctx.Request.Context(), attemptID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}
