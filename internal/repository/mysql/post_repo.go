package mysql

import (
	"database/sql"
	"strings"

	"github.com/Miracle004/Lumo/internal/model"
	"github.com/Miracle004/Lumo/internal/util"

	"go.uber.org/zap"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	query := `INSERT INTO posts (id, author_id, title, content, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, 'draft', NOW(), NOW())`
	_, err := r.db.Exec(query, post.ID, post.AuthorID, post.Title, post.Content)
	if err != nil {
		util.Logger.Error("创建草稿失败", zap.Error(err), zap.Int("author_id", post.AuthorID))
		return err
	}
	post.Status = model.StatusDraft

	util.Logger.Info("草稿创建成功", zap.String("post_id", post.ID))
	return nil
}

func (r *postRepository) FindByID(id string) (*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at,
               u.username, u.email, u.avatar_url, u.bio
        FROM posts p
        LEFT JOIN users u ON p.author_id = u.id
        WHERE p.id = ?`

	var post model.Post
	var author model.User
	var coverImage, avatar, bio sql.NullString
	var readTime sql.NullInt64
	var publishedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Content, &coverImage, &post.Status,
		&readTime, &post.CreatedAt, &post.UpdatedAt, &publishedAt,
		&author.Username, &author.Email, &avatar, &bio,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	post.CoverImageURL = coverImage.String
	author.AvatarURL = avatar.String
	author.Bio = bio.String
	post.ReadTime = int(readTime.Int64)
	if publishedAt.Valid {
		post.PublishedAt = &publishedAt.Time
	}
	author.ID = post.AuthorID
	post.Author = &author

	// 获取标签
	tags, err := r.GetTags(id)
	if err != nil {
		return nil, err
	}
	post.Tags = tags

	return &post, nil
}

// UpdateFields 只更新补丁中出现的字段，未出现的字段保持不变
// 并发写入时后到达的写整体覆盖，不做字段级合并
func (r *postRepository) UpdateFields(id string, patch *model.PostPatch) error {
	query := `UPDATE posts
              SET title = COALESCE(?, title),
                  content = COALESCE(?, content),
                  cover_image_url = COALESCE(?, cover_image_url),
                  updated_at = NOW()
              WHERE id = ?`
	_, err := r.db.Exec(query, patch.Title, patch.Content, patch.CoverImageURL, id)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.String("post_id", id))
		return err
	}
	return nil
}

func (r *postRepository) Publish(id string, readTime int) (*model.Post, error) {
	query := `UPDATE posts
              SET status = 'published', published_at = NOW(), read_time = ?, updated_at = NOW()
              WHERE id = ?`
	_, err := r.db.Exec(query, readTime, id)
	if err != nil {
		util.Logger.Error("发布帖子失败", zap.Error(err), zap.String("post_id", id))
		return nil, err
	}

	util.Logger.Info("帖子发布成功", zap.String("post_id", id), zap.Int("read_time", readTime))
	return r.FindByID(id)
}

func (r *postRepository) Delete(id string) error {
	util.Logger.Info("开始删除帖子", zap.String("post_id", id))

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 在同一事务里显式清理关联数据，不依赖外键级联
	cleanups := []string{
		`DELETE FROM post_collaborators WHERE post_id = ?`,
		`DELETE FROM comments WHERE post_id = ?`,
		`DELETE FROM likes WHERE post_id = ?`,
		`DELETE FROM bookmarks WHERE post_id = ?`,
		`DELETE FROM notifications WHERE post_id = ?`,
		`DELETE FROM post_tags WHERE post_id = ?`,
	}
	for _, query := range cleanups {
		if _, err := tx.Exec(query, id); err != nil {
			util.Logger.Error("删除帖子关联数据失败", zap.Error(err), zap.String("post_id", id))
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.String("post_id", id))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("帖子删除成功", zap.String("post_id", id))
	return nil
}

func (r *postRepository) ListPublished(limit, offset int) ([]*model.Post, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at,
               u.username, u.avatar_url
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE p.status = 'published'
        ORDER BY p.published_at DESC
        LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := r.scanPostsWithAuthor(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachTags(posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListPublishedByAuthor(userID int) ([]*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at
        FROM posts p
        WHERE p.author_id = ? AND p.status = 'published'
        ORDER BY p.published_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := r.scanPosts(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListDraftsByAuthor(userID int) ([]*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at
        FROM posts p
        WHERE p.author_id = ? AND p.status = 'draft'
        ORDER BY p.updated_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPosts(rows)
}

// ListSharedWith 返回与用户共享的草稿，附带授权信息
func (r *postRepository) ListSharedWith(userID int) ([]*model.Post, error) {
	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at,
               u.username, u.avatar_url, pc.permission, pc.is_viewed
        FROM posts p
        JOIN post_collaborators pc ON p.id = pc.post_id
        JOIN users u ON p.author_id = u.id
        WHERE pc.user_id = ? AND p.status = 'draft'
        ORDER BY p.updated_at DESC`

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
		var isViewed bool
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Content, &coverImage, &post.Status,
			&readTime, &post.CreatedAt, &post.UpdatedAt, &publishedAt,
			&author.Username, &avatar, &post.SharedPermission, &isViewed,
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
		post.IsViewed = &isViewed
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postRepository) CountByAuthor(userID int) (*model.PostCounts, error) {
	query := `SELECT status, COUNT(*) FROM posts WHERE author_id = ? GROUP BY status`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := &model.PostCounts{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case model.StatusDraft:
			counts.Drafts = count
		case model.StatusPublished:
			counts.Published = count
		}
	}
	return counts, rows.Err()
}

// SetTags 重写帖子的标签集合
// 删除和插入放在同一个事务里，避免出现帖子短暂无标签的可见间隙
func (r *postRepository) SetTags(postID string, tags []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		util.Logger.Error("删除标签关联失败", zap.Error(err), zap.String("post_id", postID))
		return err
	}

	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag))
		if name == "" {
			continue
		}

		if _, err := tx.Exec(`INSERT IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return err
		}

		var tagID int
		if err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return err
		}

		if _, err := tx.Exec(`INSERT IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交标签事务失败", zap.Error(err))
		return err
	}
	return nil
}

func (r *postRepository) GetTags(postID string) ([]string, error) {
	query := `
        SELECT t.name
        FROM tags t
        JOIN post_tags pt ON t.id = pt.tag_id
        WHERE pt.post_id = ?`

	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// Search 在已发布帖子中搜索，文本匹配标题或作者名，标签要求全部命中
func (r *postRepository) Search(text string, tags []string) ([]*model.Post, error) {
	if text == "" && len(tags) == 0 {
		return nil, nil
	}

	query := `
        SELECT p.id, p.author_id, p.title, p.content, p.cover_image_url, p.status,
               p.read_time, p.created_at, p.updated_at, p.published_at,
               u.username, u.avatar_url
        FROM posts p
        JOIN users u ON p.author_id = u.id
        WHERE p.status = 'published'`

	var args []interface{}
	if text != "" {
		query += ` AND (p.title LIKE ? OR u.username LIKE ?)`
		pattern := "%" + text + "%"
		args = append(args, pattern, pattern)
	}
	if len(tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
		query += ` AND p.id IN (
            SELECT pt.post_id FROM post_tags pt
            JOIN tags t ON pt.tag_id = t.id
            WHERE t.name IN (` + placeholders + `)
            GROUP BY pt.post_id
            HAVING COUNT(DISTINCT t.name) = ?)`
		for _, tag := range tags {
			args = append(args, tag)
		}
		args = append(args, len(tags))
	}
	query += ` ORDER BY p.published_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		util.Logger.Error("搜索帖子失败", zap.Error(err), zap.String("text", text))
		return nil, err
	}
	defer rows.Close()

	posts, err := r.scanPostsWithAuthor(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) scanPosts(rows *sql.Rows) ([]*model.Post, error) {
	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		var coverImage sql.NullString
		var readTime sql.NullInt64
		var publishedAt sql.NullTime
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Content, &coverImage, &post.Status,
			&readTime, &post.CreatedAt, &post.UpdatedAt, &publishedAt,
		)
		if err != nil {
			return nil, err
		}
		post.CoverImageURL = coverImage.String
		post.ReadTime = int(readTime.Int64)
		if publishedAt.Valid {
			post.PublishedAt = &publishedAt.Time
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postRepository) scanPostsWithAuthor(rows *sql.Rows) ([]*model.Post, error) {
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

func (r *postRepository) attachTags(posts []*model.Post) error {
	for _, post := range posts {
		tags, err := r.GetTags(post.ID)
		if err != nil {
			return err
		}
		post.Tags = tags
	}
	return nil
}
