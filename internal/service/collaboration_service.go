package service

import (
	"fmt"

	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/realtime"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

// CollaborationServiceInterface 供处理器层和测试使用
type CollaborationServiceInterface interface {
	Share(postID string, identity *model.Identity, emails []string, permission model.Permission) (*model.ShareResult, error)
	ListCollaborators(postID string, identity *model.Identity) (*model.User, []*model.Collaborator, error)
	Revoke(postID string, userID int, identity *model.Identity) error
	UnreadInviteCount(userID int) (int, error)
	MarkInvitesViewed(userID int) error
}

// CollaborationService 管理草稿的协作邀请和授权
type CollaborationService struct {
	postRepo         interfaces.PostRepository
	collaboratorRepo interfaces.CollaboratorRepository
	userRepo         interfaces.UserRepository
	notifications    *NotificationService
	email            *EmailService
	access           *AccessService
	broadcaster      realtime.Broadcaster
}

func NewCollaborationService(
	postRepo interfaces.PostRepository,
	collaboratorRepo interfaces.CollaboratorRepository,
	userRepo interfaces.UserRepository,
	notifications *NotificationService,
	email *EmailService,
	access *AccessService,
	broadcaster realtime.Broadcaster,
) *CollaborationService {
	return &CollaborationService{
		postRepo:         postRepo,
		collaboratorRepo: collaboratorRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		email:            email,
		access:           access,
		broadcaster:      broadcaster,
	}
}

// Share 把草稿分享给一组邮箱，只有作者可以调用
// 没有账号的邮箱记入错误列表；分享给自己会被跳过
// 重复分享同一用户时更新权限并把 is_viewed 重置为未读，不产生重复授权
func (s *CollaborationService) Share(postID string, identity *model.Identity, emails []string, permission model.Permission) (*model.ShareResult, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != identity.ID {
		return nil, errors.New(errors.ErrForbidden, "只有作者可以分享这篇帖子")
	}

	result := &model.ShareResult{}
	for _, email := range emails {
		user, err := s.userRepo.FindByEmail(email)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "查找用户失败", err)
		}
		if user == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("User with email %s not found", email))
			continue
		}
		if user.ID == identity.ID {
			// 不能分享给自己
			continue
		}

		collaborator := &model.Collaborator{
			PostID:     postID,
			UserID:     user.ID,
			Permission: permission,
			InvitedBy:  identity.ID,
			Username:   user.Username,
			Email:      user.Email,
		}
		if err := s.collaboratorRepo.Upsert(collaborator); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "写入协作授权失败", err)
		}
		result.Added = append(result.Added, collaborator)

		// 邀请邮件是尽力而为的，失败只记日志，不影响分享事务
		s.email.SendInviteEmail(user.Email, identity.Username, postTitleOrUntitled(post), postID)

		// 持久化通知并推送到受邀者的用户房间
		message := fmt.Sprintf("%s invited you to collaborate on \"%s\"", identity.Username, postTitleOrUntitled(post))
		notification, err := s.notifications.Create(user.ID, &identity.ID, &post.ID, model.NotificationInvite, message)
		if err != nil {
			util.Logger.Error("创建邀请通知失败", zap.Error(err), zap.Int("user_id", user.ID))
			continue
		}
		s.broadcaster.EmitToUser(user.ID, realtime.EventNewNotification, notification)
	}

	util.Logger.Info("分享完成",
		zap.String("post_id", postID),
		zap.Int("added", len(result.Added)),
		zap.Int("unresolved", len(result.Errors)))
	return result, nil
}

// ListCollaborators 列出授权，作者和协作者可见
func (s *CollaborationService) ListCollaborators(postID string, identity *model.Identity) (*model.User, []*model.Collaborator, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return nil, nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	permission, err := s.access.ResolvePermission(post, identity.ID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "解析权限失败", err)
	}
	if permission == model.PermissionNone {
		return nil, nil, errors.New(errors.ErrForbidden, "你没有查看协作者的权限")
	}

	collaborators, err := s.collaboratorRepo.ListByPost(postID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "查询协作者失败", err)
	}

	author, err := s.userRepo.FindByID(post.AuthorID)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "查询作者失败", err)
	}
	return author, collaborators, nil
}

// Revoke 移除协作者，只有作者可以调用
func (s *CollaborationService) Revoke(postID string, userID int, identity *model.Identity) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	if post == nil {
		return errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != identity.ID {
		return errors.New(errors.ErrForbidden, "只有作者可以移除协作者")
	}

	if err := s.collaboratorRepo.Delete(postID, userID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "移除协作者失败", err)
	}
	return nil
}

// UnreadInviteCount 未读邀请数，用于"与我共享"标签的角标
func (s *CollaborationService) UnreadInviteCount(userID int) (int, error) {
	return s.collaboratorRepo.CountUnviewed(userID)
}

// MarkInvitesViewed 用户打开共享列表时清零未读邀请
func (s *CollaborationService) MarkInvitesViewed(userID int) error {
	return s.collaboratorRepo.MarkViewed(userID)
}

func postTitleOrUntitled(post *model.Post) string {
	if post.Title == "" {
		return "Untitled"
	}
	return post.Title
}
