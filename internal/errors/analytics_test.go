package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAnalyticsRecordAndStats 错误按码和路径聚合，标签跟随单条记录
func TestAnalyticsRecordAndStats(t *testing.T) {
	analytics := NewErrorAnalytics()

	ctx := ErrorContext{UserID: 2, PostID: "d1", Path: "/api/posts/d1", Method: "PUT"}
	traced := NewTracedError(New(ErrForbidden, "没有权限"), ctx).
		AddLabel("client_ip", "127.0.0.1")
	analytics.Record(traced)
	analytics.Record(NewTracedError(New(ErrForbidden, "没有权限"), ctx))
	analytics.Record(NewTracedError(
		New(ErrPostNotFound, "帖子不存在"),
		ErrorContext{Path: "/api/posts/d2", Method: "GET"},
	))

	assert.Equal(t, "127.0.0.1", traced.Labels["client_ip"])

	stats := analytics.GetStats()
	assert.Equal(t, 3, stats["total_errors"])
	assert.Equal(t, map[ErrorCode]int{ErrForbidden: 2, ErrPostNotFound: 1}, stats["errors_by_code"])
	assert.Equal(t, map[string]int{"/api/posts/d1": 2, "/api/posts/d2": 1}, stats["errors_by_path"])
}

// TestTracedErrorWrapsPlainError 非 AppError 的错误被包装成内部错误
func TestTracedErrorWrapsPlainError(t *testing.T) {
	traced := NewTracedError(assert.AnError, ErrorContext{Path: "/api/posts"})
	assert.Equal(t, ErrInternal, traced.Code)
	assert.NotEmpty(t, traced.Stack)
}
