package model

import "time"

// 帖子状态
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// MaxTagsPerPost 每篇帖子最多允许的标签数
const MaxTagsPerPost = 5

// Post 表示一篇帖子（草稿或已发布）
// Content 是富文本编辑器产出的不透明字符串，原样存储
type Post struct {
	ID            string     `json:"id"`
	AuthorID      int        `json:"author_id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	CoverImageURL string     `json:"cover_image_url"`
	Status        string     `json:"status"`
	ReadTime      int        `json:"read_time"`
	Tags          []string   `json:"tags"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	Author        *User      `json:"author,omitempty"`
	LikeCount     int        `json:"like_count"`
	IsLiked       bool       `json:"is_liked"`

	// 以下字段仅在"与我共享"列表中填充
	SharedPermission Permission `json:"permission,omitempty"`
	IsViewed         *bool      `json:"is_viewed,omitempty"`
}

// PostPatch 表示一次局部更新，nil 字段保持不变
// 并发保存时后写者完全覆盖（last-write-wins），不做合并
type PostPatch struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	CoverImageURL *string   `json:"cover_image_url"`
	Tags          *[]string `json:"tags"`
}

// PostCounts 仪表盘统计
type PostCounts struct {
	Drafts    int `json:"drafts"`
	Published int `json:"published"`
}
