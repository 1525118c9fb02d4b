package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/kako/internal/archive"
)

func searchFixture() []*archive.Thread {
	return []*archive.Thread{
		{
			Number:  "1",
			Title:   "Weekend hiking plans",
			Keyword: "outdoors",
			Author:  "alice",
			Replies: []archive.Reply{
				{User: "bob", Body: "The mountain trail is open again."},
				{User: "carol", Body: "I prefer the river route."},
			},
		},
		{
			Number:  "2",
			Title:   "Compiler error after upgrade",
			Keyword: "tech",
			Author:  "dave",
			Replies: []archive.Reply{
				{User: "erin", Body: "Clear the build cache first."},
			},
		},
		{
			Number:  "3",
			Title:   "今日の天気",
			Keyword: "chat",
			Author:  "匿名",
			Replies: []archive.Reply{
				{Body: "明日は雨らしい"},
			},
		},
	}
}

func TestSearchRanksTitleAboveBody(t *testing.T) {
	e := NewEngine(searchFixture())

	results, err := e.Search("hiking", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "1", results[0].Thread.Number)
	assert.False(t, results[0].IsReply)
	assert.Equal(t, "title", results[0].Matches[0].Field)
}

func TestSearchFindsReplies(t *testing.T) {
	e := NewEngine(searchFixture())

	results, err := e.Search("mountain", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, results[0].IsReply)
	assert.Equal(t, 0, results[0].ReplyIndex)
	assert.Equal(t, "1", results[0].Thread.Number)
	assert.Contains(t, results[0].Matches[0].Text, "mountain")
}

func TestSearchShortQueryReturnsNothing(t *testing.T) {
	e := NewEngine(searchFixture())

	for _, q := range []string{"", " ", "a", " x "} {
		results, err := e.Search(q, 10)
		require.NoError(t, err)
		assert.Empty(t, results, "query %q", q)
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	e := NewEngine(searchFixture())

	results, err := e.Search("the", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 1)
}

func TestSearchCJK(t *testing.T) {
	e := NewEngine(searchFixture())

	results, err := e.Search("天気", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "3", results[0].Thread.Number)
}

func TestSearchInThread(t *testing.T) {
	threads := searchFixture()
	e := NewEngine(threads)

	results, err := e.SearchInThread(threads[0], "river")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ReplyIndex)

	results, err = e.SearchInThread(nil, "river")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"Build-Cache v2", []string{"build", "cache", "v2"}},
		{"今日の天気", []string{"今", "日", "の", "天", "気"}},
		{"go言語", []string{"go", "言", "語"}},
		{"a b c", nil},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in), "input %q", tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "long…", truncate("longer text", 5))
	assert.Equal(t, "日本語のテ…", truncate("日本語のテキストです", 6))
}

func TestFindBestSnippet(t *testing.T) {
	text := "one two three four five six seven eight nine ten mountain trail eleven twelve"
	snippet := findBestSnippet(text, []string{"mountain"}, 40)
	assert.Contains(t, snippet, "mountain")
	assert.LessOrEqual(t, len([]rune(snippet)), 40)

	assert.Equal(t, "", findBestSnippet("", []string{"x"}, 40))
}
