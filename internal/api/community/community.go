package community

import (
	"strconv"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommunityHandler 处理点赞、收藏和关注
type CommunityHandler struct {
	engagementService *service.EngagementService
}

func NewCommunityHandler(engagementService *service.EngagementService) *CommunityHandler {
	return &CommunityHandler{engagementService}
}

// LikePost 点赞，重复点赞是幂等的
func (h *CommunityHandler) LikePost(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID := c.Param("id")

	if err := h.engagementService.LikePost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	count, _ := h.engagementService.LikeCount(postID)
	errors.HandleSuccess(c, gin.H{"like_count": count}, "点赞成功")
}

// UnlikePost 取消点赞
func (h *CommunityHandler) UnlikePost(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID := c.Param("id")

	if err := h.engagementService.UnlikePost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	count, _ := h.engagementService.LikeCount(postID)
	errors.HandleSuccess(c, gin.H{"like_count": count}, "已取消点赞")
}

// BookmarkPost 收藏帖子
func (h *CommunityHandler) BookmarkPost(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID := c.Param("id")

	if err := h.engagementService.BookmarkPost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "收藏成功")
}

// UnbookmarkPost 取消收藏
func (h *CommunityHandler) UnbookmarkPost(c *gin.Context) {
	userID := c.GetInt("user_id")
	postID := c.Param("id")

	if err := h.engagementService.UnbookmarkPost(userID, postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "已取消收藏")
}

// ListBookmarks 我收藏的帖子
func (h *CommunityHandler) ListBookmarks(c *gin.Context) {
	userID := c.GetInt("user_id")

	posts, err := h.engagementService.ListBookmarked(userID)
	if err != nil {
		util.Logger.Error("获取收藏列表失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

// FollowUser 关注用户，不能关注自己
func (h *CommunityHandler) FollowUser(c *gin.Context) {
	followerID := c.GetInt("user_id")

	followedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	if err := h.engagementService.FollowUser(followerID, followedID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "关注成功")
}

// UnfollowUser 取消关注
func (h *CommunityHandler) UnfollowUser(c *gin.Context) {
	followerID := c.GetInt("user_id")

	followedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	if err := h.engagementService.UnfollowUser(followerID, followedID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "已取消关注")
}

// GetFollowers 某用户的粉丝列表
func (h *CommunityHandler) GetFollowers(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	followers, err := h.engagementService.ListFollowers(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"followers": followers}, "")
}

// GetFollowing 某用户关注的人
func (h *CommunityHandler) GetFollowing(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	following, err := h.engagementService.ListFollowing(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"following": following}, "")
}
