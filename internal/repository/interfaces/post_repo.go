package interfaces

import "github.com/Miracle004/Lumo/internal/model"

// PostRepository 定义了帖子相关的数据库操作接口
type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	UpdateFields(id string, patch *model.PostPatch) error
	Publish(id string, readTime int) (*model.Post, error)
	Delete(id string) error
	ListPublished(limit, offset int) ([]*model.Post, int, error)
	ListPublishedByAuthor(userID int) ([]*model.Post, error)
	ListDraftsByAuthor(userID int) ([]*model.Post, error)
	ListSharedWith(userID int) ([]*model.Post, error)
	CountByAuthor(userID int) (*model.PostCounts, error)
	SetTags(postID string, tags []string) error
	GetTags(postID string) ([]string, error)
	Search(text string, tags []string) ([]*model.Post, error)
}
