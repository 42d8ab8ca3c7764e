package util

import (
	"math"
	"regexp"
	"strings"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
)

// wordsPerMinute 按平均阅读速度估算阅读时长
const wordsPerMinute = 200

// ExtractPlainText 从富文本内容中提取纯文本
// 内容对系统是不透明的，只在计算阅读时长和生成摘要时做这一种解析
func ExtractPlainText(content string) string {
	text := tagPattern.ReplaceAllString(content, " ")
	return strings.Join(strings.Fields(text), " ")
}

// CountWords 统计纯文本的词数
func CountWords(content string) int {
	return len(strings.Fields(ExtractPlainText(content)))
}

// EstimateReadTime 估算阅读时长（分钟），最小为 1
func EstimateReadTime(content string) int {
	words := CountWords(content)
	readTime := int(math.Ceil(float64(words) / wordsPerMinute))
	if readTime < 1 {
		readTime = 1
	}
	return readTime
}

// ParseSearchQuery 从搜索串中拆出 #tag 标签和剩余文本
func ParseSearchQuery(query string) (text string, tags []string) {
	for _, match := range hashtagPattern.FindAllString(query, -1) {
		tags = append(tags, strings.ToLower(match[1:]))
	}
	text = strings.TrimSpace(hashtagPattern.ReplaceAllString(query, ""))
	return text, tags
}

// MakeExcerpt 生成摘要，超长时在词边界截断
func MakeExcerpt(content string, maxLen int) string {
	text := ExtractPlainText(content)
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
