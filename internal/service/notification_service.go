package service

import (
	"github.com/Miracle004/Lumo/internal/errors"
	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/repository/interfaces"
)

// 通知列表单次最多返回的条数
const notificationListLimit = 50

// NotificationService 把协作/评论事件转换为可查询的通知记录，并维护未读计数
type NotificationService struct {
	notificationRepo interfaces.NotificationRepository
	collaboratorRepo interfaces.CollaboratorRepository
}

func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	collaboratorRepo interfaces.CollaboratorRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		collaboratorRepo: collaboratorRepo,
	}
}

// Create 插入一条通知记录
func (s *NotificationService) Create(targetUserID int, actorID *int, postID *string, notificationType, message string) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:  targetUserID,
		ActorID: actorID,
		PostID:  postID,
		Type:    notificationType,
		Message: message,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "创建通知失败", err)
	}
	return notification, nil
}

// List 返回用户最近的通知，附带触发者和帖子的展示字段
func (s *NotificationService) List(userID int) ([]*model.Notification, error) {
	return s.notificationRepo.ListByUser(userID, notificationListLimit)
}

// UnreadCount 未读通知数
func (s *NotificationService) UnreadCount(userID int) (int, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead 三种模式：按ID标记一条、按帖子标记（打开该帖编辑器时）、全部标记
// 没有可标记的记录时是无害的空操作
//
// 全部标记时同时清掉遗留的协作邀请 is_viewed 标志：
// 前端的角标历史上由通知和邀请两个独立来源合成，两边必须一起归零
func (s *NotificationService) MarkRead(userID int, notificationID *int, postID *string) error {
	switch {
	case notificationID != nil:
		return s.notificationRepo.MarkRead(userID, *notificationID)
	case postID != nil:
		return s.notificationRepo.MarkReadByPost(userID, *postID)
	default:
		if err := s.notificationRepo.MarkAllRead(userID); err != nil {
			return err
		}
		return s.collaboratorRepo.MarkViewed(userID)
	}
}
