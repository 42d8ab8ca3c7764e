package post

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/storage"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxCoverImageSize = 5 << 20 // 5MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadHandler 处理封面图上传
type UploadHandler struct {
	storage storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store}
}

// UploadCoverImage 上传封面图，返回可直接写入帖子的URL
func (h *UploadHandler) UploadCoverImage(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法获取上传文件", err))
		return
	}

	if file.Size > maxCoverImageSize {
		errors.HandleError(c, errors.New(errors.ErrValidation, "图片不能超过5MB"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		errors.HandleError(c, errors.New(errors.ErrValidation, "不支持的图片格式"))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("covers/%d/%s", userID, filename)

	url, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传封面图失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传封面图失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"url": url}, "上传成功")
}
