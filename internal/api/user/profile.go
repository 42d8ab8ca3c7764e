package user

import (
	"fmt"
	"strconv"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/middleware"
	"github.com/Miracle004/Lumo/internal/service"
	"github.com/Miracle004/Lumo/internal/storage"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	userService       *service.UserService
	engagementService *service.EngagementService
	storage           storage.Storage
}

func NewProfileHandler(userService *service.UserService, engagementService *service.EngagementService, store storage.Storage) *ProfileHandler {
	return &ProfileHandler{userService, engagementService, store}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")
	current, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": current,
	}, "")
}

// GetPublicProfile 公开的用户主页，任何人可见
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	target, err := h.userService.GetUserByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	profile := gin.H{
		"id":         target.ID,
		"username":   target.Username,
		"avatar_url": target.AvatarURL,
		"bio":        target.Bio,
		"created_at": target.CreatedAt,
	}

	// 已登录访客附带关注状态
	if viewerID := middleware.CurrentUserID(c); viewerID != 0 && viewerID != target.ID {
		following, err := h.engagementService.IsFollowing(viewerID, target.ID)
		if err == nil {
			profile["is_following"] = following
		}
	}

	errors.HandleSuccess(c, gin.H{
		"user": profile,
	}, "")
}

// DeleteAccount 注销当前账号
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.userService.DeleteAccount(userID); err != nil {
		util.Logger.Error("注销账号失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "账号已注销")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	currentUser, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户信息失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	var updateData struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	// 只更新允许用户修改的字段
	if updateData.Username != "" {
		currentUser.Username = updateData.Username
	}
	if updateData.Bio != "" {
		currentUser.Bio = updateData.Bio
	}

	if err := h.userService.UpdateUser(currentUser); err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新用户资料失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": currentUser,
	}, "资料更新成功")
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		util.Logger.Error("获取上传文件失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法获取上传文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("avatars/%d/%s", userID, filename)

	avatarURL, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传头像失败", err))
		return
	}

	currentUser, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	currentUser.AvatarURL = avatarURL

	if err := h.userService.UpdateUser(currentUser); err != nil {
		util.Logger.Error("更新用户头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新用户头像失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"avatar_url": avatarURL,
	}, "头像上传成功")
}
