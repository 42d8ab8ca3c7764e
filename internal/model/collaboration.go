package model

import "time"

// Permission 表示用户对某篇草稿的权限级别
// author > edit > comment > view > none
type Permission string

const (
	PermissionAuthor  Permission = "author"
	PermissionEdit    Permission = "edit"
	PermissionComment Permission = "comment"
	PermissionView    Permission = "view"
	PermissionNone    Permission = "none"
)

// Collaborator 表示一条协作授权记录
// (post_id, user_id) 上有唯一约束，重复分享走 upsert
type Collaborator struct {
	ID         int        `json:"id"`
	PostID     string     `json:"post_id"`
	UserID     int        `json:"user_id"`
	Permission Permission `json:"permission"`
	InvitedBy  int        `json:"invited_by"`
	InvitedAt  time.Time  `json:"invited_at"`
	IsViewed   bool       `json:"is_viewed"`

	// 连表查询时附带的用户信息
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ShareResult 表示一次分享操作的结果
type ShareResult struct {
	Added  []*Collaborator `json:"added"`
	Errors []string        `json:"errors"`
}
