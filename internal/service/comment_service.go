package service

import (
	"fmt"
	"strings"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/realtime"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

// CommentService 处理帖子评论
// 草稿评论的可见性是非对称的：作者看到全部，协作者只看到自己的
// 这实现了草稿评审的"私密反馈通道"，必须严格保持
type CommentService struct {
	commentRepo   interfaces.CommentRepository
	postRepo      interfaces.PostRepository
	notifications *NotificationService
	access        *AccessService
	broadcaster   realtime.Broadcaster
}

func NewCommentService(
	commentRepo interfaces.CommentRepository,
	postRepo interfaces.PostRepository,
	notifications *NotificationService,
	access *AccessService,
	broadcaster realtime.Broadcaster,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		postRepo:      postRepo,
		notifications: notifications,
		access:        access,
		broadcaster:   broadcaster,
	}
}

// AddComment 添加评论
// 草稿要求 author/edit/comment 权限；已发布帖子对所有登录用户开放
func (s *CommentService) AddComment(postID string, identity *model.Identity, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New(errors.ErrValidation, "评论内容不能为空")
	}

	post, err := s.postRepo.FindByID(postID)
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
	if !CanComment(post, permission) {
		return nil, errors.New(errors.ErrForbidden, "你没有评论这篇帖子的权限")
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  identity.ID,
		Content: content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}

	// 回读连表字段，让房间内的其他客户端无需再次请求即可渲染
	full, err := s.commentRepo.FindByID(comment.ID)
	if err != nil || full == nil {
		util.Logger.Error("回读评论失败", zap.Error(err), zap.Int("comment_id", comment.ID))
		full = comment
	}

	// 发起评论的客户端会忽略自己的回声，它已经乐观更新过了
	s.broadcaster.EmitToPost(postID, realtime.EventNewComment, full)

	// 评论者不是作者时，通知作者
	if identity.ID != post.AuthorID {
		message := fmt.Sprintf("%s commented on your draft \"%s\"", identity.Username, postTitleOrUntitled(post))
		notification, err := s.notifications.Create(post.AuthorID, &identity.ID, &post.ID, model.NotificationComment, message)
		if err != nil {
			util.Logger.Error("创建评论通知失败", zap.Error(err), zap.Int("author_id", post.AuthorID))
		} else {
			s.broadcaster.EmitToUser(post.AuthorID, realtime.EventNewNotification, notification)
		}
	}

	return full, nil
}

// ListComments 列出评论（新的在前）
// 已发布帖子或作者本人：全部评论
// 草稿的协作者：只有自己的评论
// 未登录用户不能读草稿评论
func (s *CommentService) ListComments(postID string, userID int) ([]*model.Comment, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if post.Status == model.StatusPublished {
		return s.commentRepo.ListByPost(postID)
	}

	if userID == 0 {
		return nil, errors.New(errors.ErrUnauthorized, "需要认证")
	}

	permission, err := s.access.ResolvePermission(post, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "解析权限失败", err)
	}
	if permission == model.PermissionAuthor {
		return s.commentRepo.ListByPost(postID)
	}
	if permission == model.PermissionNone {
		return nil, errors.New(errors.ErrForbidden, "你没有查看这篇帖子评论的权限")
	}
	return s.commentRepo.ListByPostAndUser(postID, userID)
}

// DeleteComment 删除评论，评论作者或帖子作者可以操作
func (s *CommentService) DeleteComment(commentID int, identity *model.Identity) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询评论失败", err)
	}
	if comment == nil {
		return errors.New(errors.ErrCommentNotFound, "评论不存在")
	}

	post, err := s.postRepo.FindByID(comment.PostID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if comment.UserID != identity.ID && post.AuthorID != identity.ID {
		return errors.New(errors.ErrForbidden, "你没有删除这条评论的权限")
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "删除评论失败", err)
	}
	return nil
}
