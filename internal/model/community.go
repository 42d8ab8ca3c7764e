package model

import "time"

// Like 表示点赞记录，(user_id, post_id) 唯一，重复插入为幂等操作
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark 表示收藏记录，(user_id, post_id) 唯一
type Bookmark struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Follow 表示关注关系，用户不能关注自己
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"follower_id"`
	FollowedID int       `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
