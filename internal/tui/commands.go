package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/kako/internal/archive"
	"github.com/pders01/kako/internal/debuglog"
	"github.com/pders01/kako/internal/search"
	"github.com/pders01/kako/internal/viewstate"
)

type archiveLoadedMsg struct {
	collection *archive.Collection
}

type archiveLoadFailedMsg struct {
	err error
}

type detailRenderedMsg struct {
	content string
}

type searchResultsMsg struct {
	query   string
	results []searchResultItem
}

type searchDebounceFireMsg struct {
	seq int
}

type errorMsg struct {
	err error
}

// loadArchive performs the single fetch-and-parse of the session.
func (a *App) loadArchive() tea.Cmd {
	return func() tea.Msg {
		debuglog.Infof("loading archive from %s", a.config.Archive.Source)
		col, err := a.loader.Load(context.Background())
		if err != nil {
			debuglog.Errorf("archive load failed: %v", err)
			return archiveLoadFailedMsg{err: err}
		}
		debuglog.Infof("archive loaded: %d threads, %d keywords", len(col.Threads), len(col.Keywords))
		return archiveLoadedMsg{collection: col}
	}
}

// renderDetail builds the markdown for the detail view and renders it with
// glamour off the update loop.
func (a *App) renderDetail(detail *viewstate.ThreadDetail) tea.Cmd {
	return func() tea.Msg {
		var content strings.Builder
		content.WriteString(fmt.Sprintf("# %s\n\n", detail.Title))
		content.WriteString(fmt.Sprintf("*#%s", detail.Number))
		if detail.Keyword != "" {
			content.WriteString(" • " + detail.Keyword)
		}
		if detail.Author != "" {
			content.WriteString(" • by " + detail.Author)
		}
		content.WriteString("*\n\n---\n\n")

		if len(detail.Replies) == 0 {
			content.WriteString("_" + viewstate.NoRepliesPreview + "_\n")
		}
		for i, r := range detail.Replies {
			content.WriteString(fmt.Sprintf("**%d: %s** (%s)", i+1, r.User, r.UserID))
			if r.Time != "" {
				content.WriteString(" — " + r.Time)
			}
			content.WriteString("\n\n")
			content.WriteString(r.Body)
			content.WriteString("\n\n")
		}

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			return detailRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render thread: %s\n\nPress Escape to go back.", err.Error())}
		}

		return detailRenderedMsg{content: rendered}
	}
}

// performSearch runs the ranked search engine against the collection.
func (a *App) performSearch(query string) tea.Cmd {
	return a.performSearchWithScope(query, "")
}

// performSearchWithScope restricts the search to the selected thread's
// replies when scope is "thread", so searching from the detail view stays
// inside the open thread.
func (a *App) performSearchWithScope(query, scope string) tea.Cmd {
	return func() tea.Msg {
		if a.searcher == nil {
			return searchResultsMsg{query: query}
		}

		var results []*search.Result
		var err error
		if scope == "thread" && a.ctrl.Selected() != nil {
			results, err = a.searcher.SearchInThread(a.ctrl.Selected(), query)
		} else {
			results, err = a.searcher.Search(query, a.config.Search.MaxResults)
		}
		if err != nil {
			return errorMsg{err: wrapErr("search", err)}
		}

		items := make([]searchResultItem, 0, len(results))
		for _, r := range results {
			items = append(items, searchResultItem{result: r})
		}
		return searchResultsMsg{query: query, results: items}
	}
}
