package interfaces

import "github.com/Miracle004/Lumo/internal/model"

// CollaboratorRepository 定义了协作授权相关的数据库操作接口
type CollaboratorRepository interface {
	Find(postID string, userID int) (*model.Collaborator, error)
	Upsert(collaborator *model.Collaborator) error
	ListByPost(postID string) ([]*model.Collaborator, error)
	Delete(postID string, userID int) error
	CountUnviewed(userID int) (int, error)
	MarkViewed(userID int) error
}
