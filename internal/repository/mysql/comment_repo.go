package mysql

import (
	"database/sql"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	query := `INSERT INTO comments (post_id, user_id, content, created_at)
              VALUES (?, ?, ?, NOW())`

	result, err := r.db.Exec(query, comment.PostID, comment.UserID, comment.Content)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err),
			zap.String("post_id", comment.PostID), zap.Int("user_id", comment.UserID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新评论ID失败", zap.Error(err))
		return err
	}
	comment.ID = int(id)

	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID))
	return nil
}

func (r *commentRepository) FindByID(id int) (*model.Comment, error) {
	query := `
        SELECT c.id, c.post_id, c.user_id, c.content, c.is_resolved, c.created_at,
               u.username, u.email, u.avatar_url
        FROM comments c
        JOIN users u ON c.user_id = u.id
        WHERE c.id = ?`

	var c model.Comment
	var avatar sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Content, &c.IsResolved, &c.CreatedAt,
		&c.Username, &c.UserEmail, &avatar,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.AvatarURL = avatar.String
	return &c, nil
}

func (r *commentRepository) ListByPost(postID string) ([]*model.Comment, error) {
	query := `
        SELECT c.id, c.post_id, c.user_id, c.content, c.is_resolved, c.created_at,
               u.username, u.email, u.avatar_url
        FROM comments c
        JOIN users u ON c.user_id = u.id
        WHERE c.post_id = ?
        ORDER BY c.created_at DESC`

	return r.queryComments(query, postID)
}

func (r *commentRepository) ListByPostAndUser(postID string, userID int) ([]*model.Comment, error) {
	query := `
        SELECT c.id, c.post_id, c.user_id, c.content, c.is_resolved, c.created_at,
               u.username, u.email, u.avatar_url
        FROM comments c
        JOIN users u ON c.user_id = u.id
        WHERE c.post_id = ? AND c.user_id = ?
        ORDER BY c.created_at DESC`

	return r.queryComments(query, postID, userID)
}

func (r *commentRepository) Delete(id int) error {
	query := `DELETE FROM comments WHERE id = ?`
	_, err := r.db.Exec(query, id)
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
		return err
	}
	return nil
}

func (r *commentRepository) queryComments(query string, args ...interface{}) ([]*model.Comment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var c model.Comment
		var avatar sql.NullString
		err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Content, &c.IsResolved, &c.CreatedAt,
			&c.Username, &c.UserEmail, &avatar,
		)
		if err != nil {
			return nil, err
		}
		c.AvatarURL = avatar.String
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
