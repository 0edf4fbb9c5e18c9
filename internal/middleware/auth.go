package middleware

import (
	"context"
	"mcq_quiz_backend/internal/model"
	"mcq_quiz_backend/internal/util"
	"mcq_quiz_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserResolver 由令牌解析出当前用户
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string, requireAdmin bool) (*model.User, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("token")
}

func authenticate(resolver UserResolver, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		user, err := resolver.ResolveCurrentUser(c.Request.Context(), token, requireAdmin)
		if err != nil {
			logger.Log.Debug("Authentication failed", zap.String("path", c.FullPath()), zap.Error(err))
			util.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, user)
		c.Next()
	}
}

// AuthMiddleware 要求有效令牌，用户存入上下文
func AuthMiddleware(resolver UserResolver) gin.HandlerFunc {
	return authenticate(resolver, false)
}

// AdminMiddleware 在 AuthMiddleware 基础上要求管理员角色
func AdminMiddleware(resolver UserResolver) gin.HandlerFunc {
	return authenticate(resolver, true)
}
