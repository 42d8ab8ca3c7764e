package model

import "time"

// Comment 表示帖子下的一条评论
type Comment struct {
	ID         int       `json:"id"`
	PostID     string    `json:"post_id"`
	UserID     int       `json:"user_id"`
	Content    string    `json:"content"`
	IsResolved bool      `json:"is_resolved"`
	CreatedAt  time.Time `json:"created_at"`

	// 展示用的连表字段
	Username  string `json:"username,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
}
