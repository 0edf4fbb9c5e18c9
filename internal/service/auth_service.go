package service

import (
	"context"
	"errors"
	"mcq_quiz_backend/internal/config"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/repository"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UoW repository.UnitOfWork
	Cfg *config.Config

	hashCost int
}

func NewAuthService(uow repository.UnitOfWork, cfg *config.Config) *AuthService {
	return &AuthService{
		UoW:      uow,
		Cfg:      cfg,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(util.StripPassword(password)), s.hashCost)
	if err != nil {
		return "", util.Internal("hash password", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(util.StripPassword(hashed)), []byte(util.StripPassword(password))) == nil
}

// Register 创建账号；默认普通用户，管理员自助注册需配置允许
func (s *AuthService) Register(ctx context.Context, user *model.User) error {
	if user.Role == 0 {
		user.Role = model.RoleUser
	}
	if !user.Role.Valid() {
		return util.Validationf("role must be 1 (admin) or 2 (user)")
	}
	if user.Role == model.RoleAdmin && !s.Cfg.Auth.AllowAdminSignup {
		return util.Forbiddenf("admin accounts cannot be self-registered")
	}
	user.Email = repository.NormalizeEmail(user.Email)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)

	hashed, err := s.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	err = s.UoW.Do(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Users.GetByEmail(user.Email); err == nil {
			return util.Conflictf("email %s is already registered", user.Email)
		} else if !errors.Is(err, util.ErrNotFound) {
			return err
		}
		return repos.Users.Add(user)
	})
	if err != nil {
		return err
	}

	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.Int("role", int(user.Role)))
	return nil
}

// Login 校验邮箱与密码并签发访问令牌
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user *model.User
	err := s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		user, err = repos.Users.GetByEmail(email)
		return err
	})
	if errors.Is(err, util.ErrNotFound) {
		return "", util.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}

	if !CheckPassword(user.Password, password) {
		logger.Log.Debug("Login failed", zap.Uint("user_id", user.ID))
		return "", util.ErrUnauthorized
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", util.Internal("sign token", err)
	}
	return token, nil
}

// ResolveCurrentUser 校验令牌并加载用户；requireAdmin 时非管理员返回 ErrForbidden
func (s *AuthService) ResolveCurrentUser(ctx context.Context, token string, requireAdmin bool) (*model.User, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	var user *model.User
	err = s.UoW.Do(ctx, func(repos *repository.Repositories) (err error) {
		user, err = repos.Users.GetOne(userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if requireAdmin && !user.IsAdmin() {
		return nil, util.Forbiddenf("admin privileges required")
	}
	return user, nil
}
