package interfaces

import "github.com/Miracle004/Lumo/internal/model"

// CommentRepository 定义了评论相关的数据库操作接口
type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id int) (*model.Comment, error)
	ListByPost(postID string) ([]*model.Comment, error)
	ListByPostAndUser(postID string, userID int) ([]*model.Comment, error)
	Delete(id int) error
}
