package mysql

import (
	"database/sql"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

type engagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) *engagementRepository {
	return &engagementRepository{db: db}
}

// CreateLike 幂等插入，重复点赞不报错
func (r *engagementRepository) CreateLike(userID int, postID string) error {
	query := `INSERT IGNORE INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW())`
	_, err := r.db.Exec(query, userID, postID)
	if err != nil {
		util.Logger.Error("点赞失败", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	return nil
}

func (r *engagementRepository) DeleteLike(userID int, postID string) error {
	query := `DELETE FROM likes WHERE user_id = ? AND post_id = ?`
	_, err := r.db.Exec(query, userID, postID)
	return err
}

func (r *engagementRepository) CountLikes(postID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}

func (r *engagementRepository) IsLiked(userID int, postID string) (bool, error) {
	var exists int
	err := r.db.QueryRow(
		`SELECT 1 FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *engagementRepository) CreateBookmark(userID int, postID string) error {
	query := `INSERT IGNORE INTO bookmarks (user_id, post_id, created_at) VALUES (?, ?, NOW())`
	_, err := r.db.Exec(query, userID, postID)
	if err != nil {
		util.Logger.Error("收藏失败", zap.Error(err), zap.Int("user_id", userID))
		return err
	}
	return nil
}

func (r *engagementRepository) DeleteBookmark(userID int, postID string) error {
	query := `DELETE FROM bookmarks WHERE user_id = ? AND post_id = ?`
	_, err := r.db.Exec(query, userID, postID)
	return err
}

func (r *engagementRepository) ListBookmarked(userID int) ([]*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at,
               u.username, u.avatar_url
        FROM posts p
        JOIN bookmarks b ON p.id = b.post_id
        JOIN users u ON p.author_id = u.id
        WHERE b.user_id = ?
        ORDER BY b.created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var author model.User
		var coverImage, avatar sql.NullString
		var readTime sql.NullInt64
		var publishedAt sql.NullTime
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Content, &coverImage, &post.Status,
			&readTime, &post.CreatedAt, &post.UpdatedAt, &publishedAt,
			&author.Username, &avatar,
		)
		if err != nil {
			return nil, err
		}
		post.CoverImageURL = coverImage.String
		author.AvatarURL = avatar.String
		post.ReadTime = int(readTime.Int64)
		if publishedAt.Valid {
			post.PublishedAt = &publishedAt.Time
		}
		author.ID = post.AuthorID
		post.Author = &author
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *engagementRepository) CreateFollow(followerID, followedID int) error {
	query := `INSERT IGNORE INTO followers (follower_id, followed_id, created_at) VALUES (?, ?, NOW())`
	_, err := r.db.Exec(query, followerID, followedID)
	if err != nil {
		util.Logger.Error("关注失败", zap.Error(err),
			zap.Int("follower_id", followerID), zap.Int("followed_id", followedID))
		return err
	}
	return nil
}

func (r *engagementRepository) DeleteFollow(followerID, followedID int) error {
	query := `DELETE FROM followers WHERE follower_id = ? AND followed_id = ?`
	_, err := r.db.Exec(query, followerID, followedID)
	return err
}

func (r *engagementRepository) ListFollowers(userID int) ([]*model.User, error) {
	query := `
        SELECT u.id, u.username, u.email, u.avatar_url, u.bio
        FROM users u
        JOIN followers f ON u.id = f.follower_id
        WHERE f.followed_id = ?
        ORDER BY f.created_at DESC`

	return r.queryUsers(query, userID)
}

func (r *engagementRepository) ListFollowing(userID int) ([]*model.User, error) {
	query := `
        SELECT u.id, u.username, u.email, u.avatar_url, u.bio
        FROM users u
        JOIN followers f ON u.id = f.followed_id
        WHERE f.follower_id = ?
        ORDER BY f.created_at DESC`

	return r.queryUsers(query, userID)
}

func (r *engagementRepository) IsFollowing(followerID, followedID int) (bool, error) {
	var exists int
	err := r.db.QueryRow(
		`SELECT 1 FROM followers WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *engagementRepository) queryUsers(query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		var avatar, bio sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &avatar, &bio); err != nil {
			return nil, err
		}
		user.AvatarURL = avatar.String
		user.Bio = bio.String
		users = append(users, &user)
	}
	return users, rows.Err()
}
