package mysql

import (
	"database/sql"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *model.Notification) error {
	query := `INSERT INTO notifications (user_id, actor_id, post_id, type, message, is_read, created_at)
              VALUES (?, ?, ?, ?, ?, FALSE, NOW())`

	result, err := r.db.Exec(query, n.UserID, n.ActorID, n.PostID, n.Type, n.Message)
	if err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err), zap.Int("user_id", n.UserID))
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = int(id)
	return nil
}

func (r *notificationRepository) ListByUser(userID, limit int) ([]*model.Notification, error) {
	query := `
        SELECT n.id, n.user_id, n.actor_id, n.post_id, n.type, n.message, n.is_read, n.created_at,
               u.username, u.avatar_url, p.title
        FROM notifications n
        LEFT JOIN users u ON n.actor_id = u.id
        LEFT JOIN posts p ON n.post_id = p.id
        WHERE n.user_id = ?
        ORDER BY n.created_at DESC
        LIMIT ?`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		var actorID sql.NullInt64
		var postID, actorName, actorAvatar, postTitle sql.NullString
		err := rows.Scan(
			&n.ID, &n.UserID, &actorID, &postID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt,
			&actorName, &actorAvatar, &postTitle,
		)
		if err != nil {
			return nil, err
		}
		if actorID.Valid {
			id := int(actorID.Int64)
			n.ActorID = &id
		}
		if postID.Valid {
			id := postID.String
			n.PostID = &id
		}
		n.ActorName = actorName.String
		n.ActorAvatar = actorAvatar.String
		n.PostTitle = postTitle.String
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountUnread(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(userID, notificationID int) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`,
		notificationID, userID,
	)
	return err
}

func (r *notificationRepository) MarkReadByPost(userID int, postID string) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET is_read = TRUE WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	return err
}

func (r *notificationRepository) MarkAllRead(userID int) error {
	_, err := r.db.Exec(
		`UPDATE notifications SET is_read = TRUE WHERE user_id = ?`,
		userID,
	)
	return err
}
