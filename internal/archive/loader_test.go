package archive

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArchive = `[
  {
    "thread_number": "1001",
    "post_title": "First thread",
    "keyword": "news",
    "username": "alice",
    "replies": [
      {"user": "bob", "user_id": "b0b", "time": "2024年5月7日 21:24:39", "reply": "hello"}
    ]
  },
  {
    "thread_number": "1002",
    "post_title": "Second thread",
    "keyword": "chat",
    "username": "carol",
    "replies": []
  },
  {
    "thread_number": "1003",
    "post_title": "Third thread",
    "keyword": "news",
    "username": "dave",
    "replies": []
  }
]`

func writeArchive(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	loader := NewLoader(writeArchive(t, sampleArchive), "kako-test/1.0", time.Second)

	col, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, col.Threads, 3)

	assert.Equal(t, "1001", col.Threads[0].Number)
	assert.Equal(t, "First thread", col.Threads[0].Title)
	assert.Equal(t, "alice", col.Threads[0].Author)
	require.Len(t, col.Threads[0].Replies, 1)
	assert.Equal(t, "hello", col.Threads[0].Replies[0].Body)
	assert.Equal(t, "b0b", col.Threads[0].Replies[0].UserID)
}

func TestLoadExtractsDistinctKeywords(t *testing.T) {
	loader := NewLoader(writeArchive(t, sampleArchive), "kako-test/1.0", time.Second)

	col, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Distinct, first-seen order
	assert.Equal(t, []string{"news", "chat"}, col.Keywords)
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.json"), "kako-test/1.0", time.Second)

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, KindNetwork, loadErr.Kind)
}

func TestLoadMalformedJSON(t *testing.T) {
	loader := NewLoader(writeArchive(t, `{"not": "an array"`), "kako-test/1.0", time.Second)

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, KindParse, loadErr.Kind)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kako-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleArchive))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, "kako-test/1.0", time.Second)
	col, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, col.Threads, 3)
}

func TestLoadHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, "kako-test/1.0", time.Second)
	_, err := loader.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, KindHTTPStatus, loadErr.Kind)
	assert.Equal(t, http.StatusNotFound, loadErr.Status)
	assert.Contains(t, loadErr.Error(), "404")
}

func TestLoadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	loader := NewLoader(srv.URL, "kako-test/1.0", time.Second)
	_, err := loader.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, KindNetwork, loadErr.Kind)
}

func TestLoadEmptyArchive(t *testing.T) {
	loader := NewLoader(writeArchive(t, `[]`), "kako-test/1.0", time.Second)

	col, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, col.Threads)
	assert.Empty(t, col.Keywords)
}

func TestDistinctKeywordsSkipsEmpty(t *testing.T) {
	threads := []*Thread{
		{Number: "1", Keyword: "a"},
		{Number: "2", Keyword: ""},
		{Number: "3", Keyword: "a"},
		{Number: "4", Keyword: "b"},
	}
	assert.Equal(t, []string{"a", "b"}, DistinctKeywords(threads))
}
