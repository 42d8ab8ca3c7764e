package service

import (
	"testing"

	"github.com/Miracle004/Lumo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestMarkReadSingle 指定通知ID时只标记那一条
func TestMarkReadSingle(t *testing.T) {
	mockNotifications := new(MockNotificationRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	notificationService := NewNotificationService(mockNotifications, mockCollaborators)

	mockNotifications.On("MarkRead", 2, 7).Return(nil)

	id := 7
	err := notificationService.MarkRead(2, &id, nil)
	assert.NoError(t, err)

	mockNotifications.AssertExpectations(t)
	mockNotifications.AssertNotCalled(t, "MarkAllRead", mock.Anything)
	mockCollaborators.AssertNotCalled(t, "MarkViewed", mock.Anything)
}

// TestMarkReadByPost 打开某篇帖子时，把该帖的通知全部标记已读
func TestMarkReadByPost(t *testing.T) {
	mockNotifications := new(MockNotificationRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	notificationService := NewNotificationService(mockNotifications, mockCollaborators)

	mockNotifications.On("MarkReadByPost", 2, "d1").Return(nil)

	postID := "d1"
	err := notificationService.MarkRead(2, nil, &postID)
	assert.NoError(t, err)

	mockNotifications.AssertExpectations(t)
	mockCollaborators.AssertNotCalled(t, "MarkViewed", mock.Anything)
}

// TestMarkAllRead 全部标记时同时清掉遗留的邀请未读标志，两个角标一起归零
func TestMarkAllRead(t *testing.T) {
	mockNotifications := new(MockNotificationRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	notificationService := NewNotificationService(mockNotifications, mockCollaborators)

	mockNotifications.On("MarkAllRead", 2).Return(nil)
	mockCollaborators.On("MarkViewed", 2).Return(nil)

	err := notificationService.MarkRead(2, nil, nil)
	assert.NoError(t, err)

	mockNotifications.AssertExpectations(t)
	mockCollaborators.AssertExpectations(t)
}

// TestMarkAllReadNoop 没有可标记的记录也不报错
func TestMarkAllReadNoop(t *testing.T) {
	mockNotifications := new(MockNotificationRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	notificationService := NewNotificationService(mockNotifications, mockCollaborators)

	mockNotifications.On("MarkAllRead", 9).Return(nil)
	mockCollaborators.On("MarkViewed", 9).Return(nil)

	assert.NoError(t, notificationService.MarkRead(9, nil, nil))
}

// TestListAndUnreadCount 列表按上限截断，未读计数透传
func TestListAndUnreadCount(t *testing.T) {
	mockNotifications := new(MockNotificationRepository)
	mockCollaborators := new(MockCollaboratorRepository)
	notificationService := NewNotificationService(mockNotifications, mockCollaborators)

	mockNotifications.On("ListByUser", 2, notificationListLimit).Return([]*model.Notification{
		{ID: 1, UserID: 2, Type: model.NotificationInvite},
	}, nil)
	mockNotifications.On("CountUnread", 2).Return(4, nil)

	notifications, err := notificationService.List(2)
	assert.NoError(t, err)
	assert.Len(t, notifications, 1)

	count, err := notificationService.UnreadCount(2)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)

	mockNotifications.AssertExpectations(t)
}
