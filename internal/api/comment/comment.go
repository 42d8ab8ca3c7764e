package comment

import (
	"strconv"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/middleware"
	"github.com/Miracle004/Lumo/internal/service"

	"github.com/gin-gonic/gin"
)

// CommentHandler 处理帖子评论相关的HTTP请求
type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService}
}

// AddComment 发表评论
func (h *CommentHandler) AddComment(c *gin.Context) {
	postID := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	var commentData struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	created, err := h.commentService.AddComment(postID, identity, commentData.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"comment": created}, "评论成功")
}

// ListComments 列出帖子评论，草稿的可见范围因身份而异
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID := c.Param("id")
	userID := middleware.CurrentUserID(c)

	comments, err := h.commentService.ListComments(postID, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"comments": comments}, "")
}

// DeleteComment 删除评论，评论作者或帖子作者可操作
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论ID", err))
		return
	}

	if err := h.commentService.DeleteComment(commentID, identity); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "评论已删除")
}
