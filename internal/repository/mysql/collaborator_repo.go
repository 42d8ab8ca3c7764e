package mysql

import (
	"database/sql"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

type collaboratorRepository struct {
	db *sql.DB
}

func NewCollaboratorRepository(db *sql.DB) *collaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) Find(postID string, userID int) (*model.Collaborator, error) {
	query := `SELECT id, post_id, user_id, permission, invited_by, invited_at, is_viewed
              FROM post_collaborators
              WHERE post_id = ? AND user_id = ?`

	var c model.Collaborator
	err := r.db.QueryRow(query, postID, userID).Scan(
		&c.ID, &c.PostID, &c.UserID, &c.Permission, &c.InvitedBy, &c.InvitedAt, &c.IsViewed,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Upsert 插入授权记录，(post_id, user_id) 冲突时更新权限并把 is_viewed 重置为未读
func (r *collaboratorRepository) Upsert(c *model.Collaborator) error {
	query := `INSERT INTO post_collaborators (post_id, user_id, permission, invited_by, is_viewed, invited_at)
              VALUES (?, ?, ?, ?, FALSE, NOW())
              ON DUPLICATE KEY UPDATE permission = VALUES(permission), is_viewed = FALSE`

	_, err := r.db.Exec(query, c.PostID, c.UserID, c.Permission, c.InvitedBy)
	if err != nil {
		util.Logger.Error("写入协作授权失败", zap.Error(err),
			zap.String("post_id", c.PostID), zap.Int("user_id", c.UserID))
		return err
	}
	c.IsViewed = false

	// 回读生成的字段
	saved, err := r.Find(c.PostID, c.UserID)
	if err != nil {
		return err
	}
	if saved != nil {
		c.ID = saved.ID
		c.InvitedAt = saved.InvitedAt
	}

	util.Logger.Info("协作授权已写入",
		zap.String("post_id", c.PostID),
		zap.Int("user_id", c.UserID),
		zap.String("permission", string(c.Permission)))
	return nil
}

func (r *collaboratorRepository) ListByPost(postID string) ([]*model.Collaborator, error) {
	query := `
        SELECT pc.id, pc.post_id, pc.user_id, pc.permission, pc.invited_by, pc.invited_at, pc.is_viewed,
               u.username, u.email
        FROM post_collaborators pc
        JOIN users u ON pc.user_id = u.id
        WHERE pc.post_id = ?`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collaborators []*model.Collaborator
	for rows.Next() {
		var c model.Collaborator
		err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Permission, &c.InvitedBy, &c.InvitedAt, &c.IsViewed,
			&c.Username, &c.Email,
		)
		if err != nil {
			return nil, err
		}
		collaborators = append(collaborators, &c)
	}
	return collaborators, rows.Err()
}

func (r *collaboratorRepository) Delete(postID string, userID int) error {
	query := `DELETE FROM post_collaborators WHERE post_id = ? AND user_id = ?`
	_, err := r.db.Exec(query, postID, userID)
	if err != nil {
		util.Logger.Error("移除协作者失败", zap.Error(err),
			zap.String("post_id", postID), zap.Int("user_id", userID))
		return err
	}
	return nil
}

func (r *collaboratorRepository) CountUnviewed(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM post_collaborators WHERE user_id = ? AND is_viewed = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}

func (r *collaboratorRepository) MarkViewed(userID int) error {
	_, err := r.db.Exec(
		`UPDATE post_collaborators SET is_viewed = TRUE WHERE user_id = ? AND is_viewed = FALSE`,
		userID,
	)
	return err
}
