package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer 令牌并把请求者身份注入上下文
func AuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "无效的认证格式"))
			c.Abort()
			return
		}

		if userService.IsTokenBlacklisted(parts[1]) {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "令牌已被撤销"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(parts[1])
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "无效或过期的令牌", err))
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err != nil {
			util.Logger.Warn("令牌对应的用户不存在", zap.Int("user_id", userID))
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "无效的令牌"))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("identity", &model.Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "请求超时"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

// OptionalAuthMiddleware 尝试解析令牌但不强制要求
// 公开接口用它区分匿名访问者和已登录用户
func OptionalAuthMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.Next()
			return
		}

		if userService.IsTokenBlacklisted(parts[1]) {
			c.Next()
			return
		}

		userID, err := util.ValidateToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err != nil || user == nil {
			c.Next()
			return
		}

		c.Set("user_id", userID)
		c.Set("identity", &model.Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
		c.Next()
	}
}

// CurrentIdentity 从上下文取出认证身份，未登录返回 nil
func CurrentIdentity(c *gin.Context) *model.Identity {
	v, ok := c.Get("identity")
	if !ok {
		return nil
	}
	identity, ok := v.(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// CurrentUserID 从上下文取出用户ID，未登录返回 0
func CurrentUserID(c *gin.Context) int {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	id, ok := v.(int)
	if !ok {
		return 0
	}
	return id
}
