package notification

import (
	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler 处理通知列表、未读计数和已读标记
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService}
}

// List 最近通知，最多50条
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetInt("user_id")

	notifications, err := h.notificationService.List(userID)
	if err != nil {
		util.Logger.Error("获取通知列表失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"notifications": notifications}, "")
}

// UnreadCount 未读通知数量
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.GetInt("user_id")

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"count": count}, "")
}

// MarkRead 标记已读，三种模式：单条、按帖子、全部
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetInt("user_id")

	var markData struct {
		NotificationID *int    `json:"notification_id"`
		PostID         *string `json:"post_id"`
	}

	// 空请求体等同于全部标记已读
	_ = c.ShouldBindJSON(&markData)

	if err := h.notificationService.MarkRead(userID, markData.NotificationID, markData.PostID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "已标记为已读")
}
