package service

import (
	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/realtime"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
	"github.com/Miracle004/Lumo/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostService 处理草稿的创建、保存、发布和删除
type PostService struct {
	postRepo    interfaces.PostRepository
	access      *AccessService
	broadcaster realtime.Broadcaster
}

func NewPostService(postRepo interfaces.PostRepository, access *AccessService, broadcaster realtime.Broadcaster) *PostService {
	return &PostService{
		postRepo:    postRepo,
		access:      access,
		broadcaster: broadcaster,
	}
}

// CreateDraft 创建一篇空草稿，归创建者所有
func (s *PostService) CreateDraft(identity *model.Identity, title, content string) (*model.Post, error) {
	post := &model.Post{
		ID:       uuid.NewString(),
		AuthorID: identity.ID,
		Title:    title,
		Content:  content,
		Status:   model.StatusDraft,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建草稿失败", err)
	}
	return post, nil
}

// GetPost 获取帖子，草稿只对作者和协作者可见
func (s *PostService) GetPost(id string, userID int) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if post.Status == model.StatusPublished {
		return post, nil
	}

	if userID == 0 {
		return nil, errors.New(errors.ErrUnauthorized, "需要认证")
	}

	permission, err := s.access.ResolvePermission(post, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "解析权限失败", err)
	}
	if !CanView(post, permission) {
		return nil, errors.New(errors.ErrForbidden, "你没有访问这篇草稿的权限")
	}
	return post, nil
}

// UpdateDraft 保存草稿，只更新补丁里出现的字段
// 并发保存采用 last-write-wins，后写者的字段值整体胜出
func (s *PostService) UpdateDraft(id string, patch *model.PostPatch, identity *model.Identity) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	permission, err := s.access.ResolvePermission(post, identity.ID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "解析权限失败", err)
	}
	if !CanEdit(permission) {
		return nil, errors.New(errors.ErrForbidden, "你没有编辑这篇帖子的权限")
	}
	// 发布后帖子对非作者只读
	if post.Status == model.StatusPublished && permission != model.PermissionAuthor {
		return nil, errors.New(errors.ErrForbidden, "帖子已发布，协作者不能再修改")
	}

	if patch.Tags != nil && len(*patch.Tags) > model.MaxTagsPerPost {
		return nil, errors.New(errors.ErrValidation, "最多只能添加5个标签")
	}

	if err := s.postRepo.UpdateFields(id, patch); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "保存草稿失败", err)
	}
	if patch.Tags != nil {
		if err := s.postRepo.SetTags(id, *patch.Tags); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "保存标签失败", err)
		}
	}

	updated, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}

	// 通知房间内的其他编辑者，接收方不做自动合并
	s.broadcaster.EmitToPost(id, realtime.EventPostUpdated, map[string]interface{}{
		"post_id":    id,
		"title":      updated.Title,
		"updated_by": identity.Username,
	})

	return updated, nil
}

// Publish 发布帖子，只有作者可以操作
// 重复发布不报错，每次都重新计算 read_time 并重置 published_at
func (s *PostService) Publish(id string, identity *model.Identity) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != identity.ID {
		return nil, errors.New(errors.ErrForbidden, "只有作者可以发布这篇帖子")
	}

	readTime := util.EstimateReadTime(post.Content)
	published, err := s.postRepo.Publish(id, readTime)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "发布帖子失败", err)
	}

	util.Logger.Info("帖子已发布",
		zap.String("post_id", id),
		zap.Int("author_id", identity.ID),
		zap.Int("read_time", readTime))
	return published, nil
}

// Delete 删除帖子，只有作者可以操作
// 协作授权、评论、点赞、收藏由存储层级联删除
func (s *PostService) Delete(id string, identity *model.Identity) error {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != identity.ID {
		return errors.New(errors.ErrForbidden, "只有作者可以删除这篇帖子")
	}

	if err := s.postRepo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除帖子失败", err)
	}
	return nil
}

// ListPublished 公开信息流
func (s *PostService) ListPublished(limit, offset int) ([]*model.Post, int, error) {
	return s.postRepo.ListPublished(limit, offset)
}

// GetDashboard 返回我的草稿和与我共享的草稿
func (s *PostService) GetDashboard(userID int) (myDrafts, sharedWithMe []*model.Post, err error) {
	myDrafts, err = s.postRepo.ListDraftsByAuthor(userID)
	if err != nil {
		return nil, nil, err
	}
	sharedWithMe, err = s.postRepo.ListSharedWith(userID)
	if err != nil {
		return nil, nil, err
	}
	return myDrafts, sharedWithMe, nil
}

// GetCounts 仪表盘统计
func (s *PostService) GetCounts(userID int) (*model.PostCounts, error) {
	return s.postRepo.CountByAuthor(userID)
}

// ListMyPublished 我的已发布帖子
func (s *PostService) ListMyPublished(userID int) ([]*model.Post, error) {
	return s.postRepo.ListPublishedByAuthor(userID)
}

// Search 在已发布帖子中搜索，q 中的 #tag 按标签过滤，其余文本匹配标题或作者
func (s *PostService) Search(query string) ([]*model.Post, error) {
	text, tags := util.ParseSearchQuery(query)
	return s.postRepo.Search(text, tags)
}
