package collaboration

import (
	"strconv"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/middleware"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CollaborationHandler 处理草稿共享相关的HTTP请求
type CollaborationHandler struct {
	collaborationService service.CollaborationServiceInterface
}

func NewCollaborationHandler(collaborationService service.CollaborationServiceInterface) *CollaborationHandler {
	return &CollaborationHandler{collaborationService}
}

// Share 邀请协作者，按邮箱批量授权
func (h *CollaborationHandler) Share(c *gin.Context) {
	postID := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	var shareData struct {
		Emails     []string `json:"emails" binding:"required,min=1,dive,email"`
		Permission string   `json:"permission" binding:"required,permission"`
	}

	if err := c.ShouldBindJSON(&shareData); err != nil {
		util.Logger.Warn("共享失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	result, err := h.collaborationService.Share(postID, identity, shareData.Emails, model.Permission(shareData.Permission))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"added":  result.Added,
		"errors": result.Errors,
	}, "共享完成")
}

// ListCollaborators 列出帖子的作者和所有协作者
func (h *CollaborationHandler) ListCollaborators(c *gin.Context) {
	postID := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	author, collaborators, err := h.collaborationService.ListCollaborators(postID, identity)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"author":        author,
		"collaborators": collaborators,
	}, "")
}

// Revoke 移除协作者授权
func (h *CollaborationHandler) Revoke(c *gin.Context) {
	postID := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	if err := h.collaborationService.Revoke(postID, userID, identity); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "已移除协作者")
}

// UnreadInviteCount 未查看的邀请数量，用于仪表盘角标
func (h *CollaborationHandler) UnreadInviteCount(c *gin.Context) {
	userID := c.GetInt("user_id")

	count, err := h.collaborationService.UnreadInviteCount(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"count": count}, "")
}

// MarkInvitesViewed 把当前用户的所有邀请标记为已查看
func (h *CollaborationHandler) MarkInvitesViewed(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.collaborationService.MarkInvitesViewed(userID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "邀请已全部标记为已查看")
}
