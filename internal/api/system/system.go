package system

import (
	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SystemHandler 暴露健康检查和运行统计
type SystemHandler struct {
	userService *service.UserService
	analytics   *errors.ErrorAnalytics
}

func NewSystemHandler(userService *service.UserService, analytics *errors.ErrorAnalytics) *SystemHandler {
	return &SystemHandler{userService, analytics}
}

func (h *SystemHandler) Health(c *gin.Context) {
	totalUsers, err := h.userService.TotalUsers()
	if err != nil {
		util.Logger.Error("获取用户总数失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "获取统计信息失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"status":      "ok",
		"total_users": totalUsers,
		"errors":      h.analytics.GetStats(),
	}, "")
}
