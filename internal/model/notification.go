package model

import "time"

// 通知类型
const (
	NotificationComment = "comment"
	NotificationInvite  = "invite"
	NotificationSystem  = "system"
)

// Notification 表示一条通知记录，只由协作/评论事件派生，终端用户不能直接创建
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ActorID   *int      `json:"actor_id"`
	PostID    *string   `json:"post_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	// 展示用的连表字段
	ActorName   string `json:"actor_name,omitempty"`
	ActorAvatar string `json:"actor_avatar,omitempty"`
	PostTitle   string `json:"post_title,omitempty"`
}
