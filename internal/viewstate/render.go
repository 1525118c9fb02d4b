package viewstate

import "github.com/pders01/kako/internal/archive"

// Fallback strings owned by the projection, not the filter engine.
const (
	NoRepliesPreview = "No replies yet"
	AnonymousUser    = "Anonymous"
	EmptyMessage     = "No threads match the current filters"
)

// RenderModel is the minimal projection a presentation layer needs. It is
// rebuilt from scratch on every call; nothing in it aliases mutable state.
type RenderModel struct {
	Phase   Phase
	List    []ThreadSummary
	Detail  *ThreadDetail
	Message string
}

// ThreadSummary is one card in the list view.
type ThreadSummary struct {
	Number  string
	Title   string
	Keyword string
	Author  string
	Preview string
}

// ThreadDetail is the full thread for the detail view.
type ThreadDetail struct {
	Number  string
	Title   string
	Keyword string
	Author  string
	Replies []ReplyView
}

// ReplyView is a reply with render-time defaults applied.
type ReplyView struct {
	User   string
	UserID string
	Time   string
	Body   string
}

// Render projects the controller state for the active phase.
func (c *Controller) Render() RenderModel {
	m := RenderModel{Phase: c.phase}

	switch c.phase {
	case PhaseList:
		m.List = summarize(c.filtered)
	case PhaseDetail:
		m.List = summarize(c.filtered)
		m.Detail = detail(c.selected)
	case PhaseEmpty:
		m.Message = EmptyMessage
	case PhaseError:
		m.Message = c.errMessage
	}
	return m
}

func summarize(threads []*archive.Thread) []ThreadSummary {
	out := make([]ThreadSummary, len(threads))
	for i, t := range threads {
		out[i] = ThreadSummary{
			Number:  t.Number,
			Title:   t.Title,
			Keyword: t.Keyword,
			Author:  t.Author,
			Preview: preview(t),
		}
	}
	return out
}

// preview is the first reply's body, or the fallback for reply-less
// threads. A business rule of the projection, kept out of the filter.
func preview(t *archive.Thread) string {
	if len(t.Replies) == 0 {
		return NoRepliesPreview
	}
	return t.Replies[0].Body
}

func detail(t *archive.Thread) *ThreadDetail {
	if t == nil {
		return nil
	}
	d := &ThreadDetail{
		Number:  t.Number,
		Title:   t.Title,
		Keyword: t.Keyword,
		Author:  t.Author,
		Replies: make([]ReplyView, len(t.Replies)),
	}
	for i, r := range t.Replies {
		user := r.User
		if user == "" {
			user = AnonymousUser
		}
		d.Replies[i] = ReplyView{User: user, UserID: r.UserID, Time: r.Time, Body: r.Body}
	}
	return d
}
