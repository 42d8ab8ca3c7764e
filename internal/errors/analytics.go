package errors

import (
	"sync"
	"time"
)

// ErrorAnalytics 错误分析，按错误码和请求路径聚合计数
type ErrorAnalytics struct {
	mu            sync.RWMutex
	TotalErrors   int
	ErrorsByCode  map[ErrorCode]int
	ErrorsByPath  map[string]int
	LastErrorTime time.Time
}

// NewErrorAnalytics 创建错误分析器
func NewErrorAnalytics() *ErrorAnalytics {
	return &ErrorAnalytics{
		ErrorsByCode: make(map[ErrorCode]int),
		ErrorsByPath: make(map[string]int),
	}
}

// Record 记录错误
func (a *ErrorAnalytics) Record(err *TracedError) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.TotalErrors++
	a.ErrorsByCode[err.Code]++
	a.ErrorsByPath[err.Context.Path]++
	a.LastErrorTime = time.Now()
}

// GetStats 获取统计信息
func (a *ErrorAnalytics) GetStats() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	codes := make(map[ErrorCode]int, len(a.ErrorsByCode))
	for code, count := range a.ErrorsByCode {
		codes[code] = count
	}
	paths := make(map[string]int, len(a.ErrorsByPath))
	for path, count := range a.ErrorsByPath {
		paths[path] = count
	}

	return map[string]interface{}{
		"total_errors":   a.TotalErrors,
		"errors_by_code": codes,
		"errors_by_path": paths,
		"last_error":     a.LastErrorTime,
	}
}
