package post

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

// PostHandler 处理帖子的增删改查、发布和仪表盘查询
type PostHandler struct {
	postService       *service.PostService
	engagementService *service.EngagementService
}

func NewPostHandler(postService *service.PostService, engagementService *service.EngagementService) *PostHandler {
	return &PostHandler{postService, engagementService}
}

// CreatePost 新建草稿
func (h *PostHandler) CreatePost(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var createData struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&createData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	created, err := h.postService.CreateDraft(identity, createData.Title, createData.Content)
	if err != nil {
		util.Logger.Error("创建草稿失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": created}, "草稿创建成功")
}

// GetPost 获取单篇帖子，草稿受权限门控
func (h *PostHandler) GetPost(c *gin.Context) {
	id := c.Param("id")
	userID := middleware.CurrentUserID(c)

	found, err := h.postService.GetPost(id, userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 公开的互动数据随帖子一起返回
	if count, err := h.engagementService.LikeCount(id); err == nil {
		found.LikeCount = count
	}
	if userID != 0 {
		if liked, err := h.engagementService.HasLiked(userID, id); err == nil {
			found.IsLiked = liked
		}
	}

	errors.HandleSuccess(c, gin.H{"post": found}, "")
}

// UpdatePost 局部更新草稿，缺省字段保持原值
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	var patch model.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	updated, err := h.postService.UpdateDraft(id, &patch, identity)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": updated}, "保存成功")
}

// PublishPost 发布帖子，仅作者可操作
func (h *PostHandler) PublishPost(c *gin.Context) {
	id := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	published, err := h.postService.Publish(id, identity)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": published}, "发布成功")
}

// DeletePost 删除帖子，仅作者可操作
func (h *PostHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	identity := middleware.CurrentIdentity(c)

	if err := h.postService.Delete(id, identity); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "帖子已删除")
}

// ListPublished 公开信息流，带分页
func (h *PostHandler) ListPublished(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	posts, total, err := h.postService.ListPublished(limit, offset)
	if err != nil {
		util.Logger.Error("获取公开帖子列表失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":  posts,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}, "")
}

// Dashboard 返回我的草稿和共享给我的草稿
func (h *PostHandler) Dashboard(c *gin.Context) {
	userID := c.GetInt("user_id")

	myDrafts, sharedWithMe, err := h.postService.GetDashboard(userID)
	if err != nil {
		util.Logger.Error("获取仪表盘失败", zap.Error(err), zap.Int("user_id", userID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"my_drafts":      myDrafts,
		"shared_with_me": sharedWithMe,
	}, "")
}

// Stats 草稿/已发布数量统计
func (h *PostHandler) Stats(c *gin.Context) {
	userID := c.GetInt("user_id")

	counts, err := h.postService.GetCounts(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"counts": counts}, "")
}

// MyPublished 我发布过的帖子
func (h *PostHandler) MyPublished(c *gin.Context) {
	userID := c.GetInt("user_id")

	posts, err := h.postService.ListMyPublished(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}

// Search 全文搜索已发布帖子，支持 #标签 词项
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少搜索关键词"))
		return
	}

	posts, err := h.postService.Search(query)
	if err != nil {
		util.Logger.Error("搜索失败", zap.Error(err), zap.String("query", query))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"posts": posts}, "")
}
