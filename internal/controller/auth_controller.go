package controller

import (
	"errors"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/service"
	"mcq_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	FirstName string         `json:"first_name" binding:"required,max=100"`
	LastName  string         `json:"last_name" binding:"required,max=100"`
	Email     string         `json:"email" binding:"required,email"`
	Password  string         `json:"password" binding:"required,min=6"`
	Role      model.UserRole `json:"role" binding:"omitempty,oneof=1 2"`
}

// swagger:model RegisterResponse
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

// LoginRequest 支持表单 username/password 或 JSON
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// swagger:model TokenResponse
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register godoc
// @Summary 注册新用户
// @Description 使用提供的信息注册新用户，role 缺省为普通用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} RegisterResponse "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "不允许注册管理员"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	}
	if err := c.AuthService.Register(ctx.Request.Context(), user); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, RegisterResponse{Message: "User registered successfully", UserID: user.ID})
}

// Login godoc
// @Summary 用户登录
// @Description 表单(username/password)或 JSON 登录，返回 Bearer 令牌
// @Tags 认证
// @Accept  x-www-form-urlencoded,json
// @Produce  json
// @Param   body body LoginRequest true "登录凭证"
// @Success 200 {object} TokenResponse "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	email := req.Username
	if email == "" {
		email = req.Email
	}
	if email == "" {
		util.BadRequest(ctx, "username is required")
		return
	}

	token, err := c.AuthService.Login(ctx.Request.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrUnauthorized) {
			util.Unauthorized(ctx, "Incorrect username or password")
			return
		}
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Profile godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} model.User
// @Failure 401 {object} util.Response "未登录"
// @Router /profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Not authenticated")
		return
	}
	util.Success(ctx, user)
}
