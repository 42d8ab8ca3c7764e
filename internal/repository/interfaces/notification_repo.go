package interfaces

import "github.com/Miracle004/Lumo/internal/model"

// NotificationRepository 定义了通知相关的数据库操作接口
type NotificationRepository interface {
	Create(notification *model.Notification) error
	ListByUser(userID, limit int) ([]*model.Notification, error)
	CountUnread(userID int) (int, error)
	MarkRead(userID, notificationID int) error
	MarkReadByPost(userID int, postID string) error
	MarkAllRead(userID int) error
}
