package middleware

import (
	"github.com/Miracle004/Lumo/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitorMiddleware 聚合请求处理中出现的错误，按错误码和路径计数
func ErrorMonitorMiddleware(analytics *errors.ErrorAnalytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		ctx := errors.ErrorContext{
			UserID: CurrentUserID(c),
			PostID: c.Param("id"),
			Path:   c.Request.URL.Path,
			Method: c.Request.Method,
		}

		for _, e := range c.Errors {
			traced := errors.NewTracedError(e.Err, ctx).
				AddLabel("client_ip", c.ClientIP())
			analytics.Record(traced)

			// 记录错误日志
			zap.L().Error("请求处理错误",
				zap.Int("error_code", int(traced.Code)),
				zap.String("error_message", traced.Message),
				zap.Error(traced.Err),
				zap.Int("user_id", ctx.UserID),
				zap.String("path", ctx.Path),
				zap.String("method", ctx.Method))
		}
	}
}
