package interfaces

import "github.com/Miracle004/Lumo/internal/model"

// EngagementRepository 定义了点赞、收藏、关注相关的数据库操作接口
type EngagementRepository interface {
	CreateLike(userID int, postID string) error
	DeleteLike(userID int, postID string) error
	CountLikes(postID string) (int, error)
	IsLiked(userID int, postID string) (bool, error)

	CreateBookmark(userID int, postID string) error
	DeleteBookmark(userID int, postID string) error
	ListBookmarked(userID int) ([]*model.Post, error)

	CreateFollow(followerID, followedID int) error
	DeleteFollow(followerID, followedID int) error
	ListFollowers(userID int) ([]*model.User, error)
	ListFollowing(userID int) ([]*model.User, error)
	IsFollowing(followerID, followedID int) (bool, error)
}
