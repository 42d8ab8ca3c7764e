package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", ExtractPlainText("<p>Hello <b>world</b></p>"))
	assert.Equal(t, "a b", ExtractPlainText("  a\n\n<br/>b  "))
	assert.Equal(t, "", ExtractPlainText("<div><img src=\"x.png\"/></div>"))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 1, CountWords("<p>word</p>"))
	assert.Equal(t, 3, CountWords("one  two\nthree"))
}

// TestEstimateReadTime 每分钟200词向上取整，最小1分钟
func TestEstimateReadTime(t *testing.T) {
	assert.Equal(t, 1, EstimateReadTime(""))
	assert.Equal(t, 1, EstimateReadTime("word"))
	assert.Equal(t, 1, EstimateReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, EstimateReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 2, EstimateReadTime(strings.Repeat("word ", 400)))
	assert.Equal(t, 3, EstimateReadTime(strings.Repeat("word ", 401)))
}

// TestParseSearchQuery #tag 词项拆出并小写化，其余文本保留
func TestParseSearchQuery(t *testing.T) {
	text, tags := ParseSearchQuery("golang tips #Tutorial #Go")
	assert.Equal(t, "golang tips", text)
	assert.Equal(t, []string{"tutorial", "go"}, tags)

	text, tags = ParseSearchQuery("#onlytag")
	assert.Equal(t, "", text)
	assert.Equal(t, []string{"onlytag"}, tags)

	text, tags = ParseSearchQuery("plain text")
	assert.Equal(t, "plain text", text)
	assert.Empty(t, tags)
}

func TestMakeExcerpt(t *testing.T) {
	assert.Equal(t, "short", MakeExcerpt("<p>short</p>", 50))

	long := MakeExcerpt("<p>"+strings.Repeat("word ", 50)+"</p>", 20)
	assert.True(t, strings.HasSuffix(long, "…"))
	assert.LessOrEqual(t, len(long), 20+len("…"))
}
