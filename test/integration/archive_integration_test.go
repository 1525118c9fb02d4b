package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/kako/internal/archive"
	"github.com/pders01/kako/internal/filter"
	"github.com/pders01/kako/internal/search"
	"github.com/pders01/kako/internal/viewstate"
)

const archiveDocument = `[
  {
    "thread_number": "101",
    "post_title": "Spring hiking meetup",
    "keyword": "outdoors",
    "username": "alice",
    "replies": [
      {"user": "bob", "user_id": "b1", "time": "2024年5月7日 21:24:39", "reply": "Count me in for the mountain trail."},
      {"user_id": "c2", "time": "2024年5月8日 09:15:00", "reply": "Same here."}
    ]
  },
  {
    "thread_number": "102",
    "post_title": "Release day issues",
    "keyword": "tech",
    "username": "carol",
    "replies": [
      {"user": "dave", "user_id": "d3", "time": "2024年6月2日 14:00:00", "reply": "Rollback finished, all green."}
    ]
  },
  {
    "thread_number": "103",
    "post_title": "Quiet corner",
    "keyword": "outdoors",
    "username": "erin",
    "replies": []
  }
]`

func serveArchive(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(archiveDocument))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// The full happy path: fetch over HTTP, walk the state machine through
// list, detail, and filtering, and run both search engines over the same
// collection.
func TestArchiveSessionOverHTTP(t *testing.T) {
	loader := archive.NewLoader(serveArchive(t), "kako-integration/1.0", 5*time.Second)
	col, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, col.Threads, 3)
	assert.Equal(t, []string{"outdoors", "tech"}, col.Keywords)

	ctrl := viewstate.NewController()
	ctrl.SetLoaded(col)
	require.Equal(t, viewstate.PhaseList, ctrl.Phase())

	// Open a thread, come back, and confirm nothing was disturbed.
	require.NoError(t, ctrl.Select(col.Threads[0]))
	model := ctrl.Render()
	require.NotNil(t, model.Detail)
	assert.Equal(t, "Spring hiking meetup", model.Detail.Title)
	assert.Equal(t, viewstate.AnonymousUser, model.Detail.Replies[1].User)
	ctrl.Back()
	assert.Len(t, ctrl.Visible(), 3)

	// Narrow by keyword and date, then reset.
	lo, hi := filter.DayRange(
		time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, time.May, 31, 0, 0, 0, 0, time.Local),
	)
	ctrl.Apply(filter.State{
		Keywords: filter.WithKeywords("outdoors"),
		Start:    &lo,
		End:      &hi,
	})
	require.Len(t, ctrl.Visible(), 1)
	assert.Equal(t, "101", ctrl.Visible()[0].Number)

	ctrl.Apply(filter.State{Query: "nothing matches this"})
	assert.Equal(t, viewstate.PhaseEmpty, ctrl.Phase())

	ctrl.Reset()
	assert.Equal(t, viewstate.PhaseList, ctrl.Phase())
	assert.Len(t, ctrl.Visible(), 3)
}

func TestSearchEnginesAgreeOnHits(t *testing.T) {
	loader := archive.NewLoader(serveArchive(t), "kako-integration/1.0", 5*time.Second)
	col, err := loader.Load(context.Background())
	require.NoError(t, err)

	memory := search.NewEngine(col.Threads)
	bleve, err := search.NewBleveEngine(col.Threads)
	require.NoError(t, err)

	for _, engine := range []search.Searcher{memory, bleve} {
		results, err := engine.Search("mountain", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "101", results[0].Thread.Number)
	}
}

func TestLoadFailureEndsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(srv.Close)

	loader := archive.NewLoader(srv.URL, "kako-integration/1.0", 5*time.Second)
	_, err := loader.Load(context.Background())
	require.Error(t, err)

	ctrl := viewstate.NewController()
	ctrl.SetLoadFailed(err)
	assert.Equal(t, viewstate.PhaseError, ctrl.Phase())
	assert.Contains(t, ctrl.ErrMessage(), "410")

	// The error is terminal: no filtering or selection works afterwards.
	ctrl.Apply(filter.State{Query: "x"})
	assert.Equal(t, viewstate.PhaseError, ctrl.Phase())
}
