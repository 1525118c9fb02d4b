package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/kako/internal/search"
	"github.com/pders01/kako/internal/viewstate"
)

type threadItem struct {
	summary    viewstate.ThreadSummary
	maxPreview int
}

func (i threadItem) Title() string {
	title := i.summary.Title
	if i.summary.Keyword != "" {
		title += " " + KeywordChipStyle.Render("["+i.summary.Keyword+"]")
	}
	return title
}

func (i threadItem) Description() string {
	preview := truncateEnd(firstLine(i.summary.Preview), i.maxPreview)
	desc := lipgloss.NewStyle().Foreground(MutedColor).Render(preview)

	meta := ""
	if i.summary.Author != "" {
		meta = TimeStyle.Render(" • " + i.summary.Author)
	}
	return desc + meta
}

func (i threadItem) FilterValue() string { return i.summary.Title }

type searchResultItem struct {
	result *search.Result
}

func (i searchResultItem) Title() string {
	if i.result.IsReply {
		return "💬 " + i.result.Thread.Title
	}
	return lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true).
		Render("🧵 " + i.result.Thread.Title)
}

func (i searchResultItem) Description() string {
	if i.result.IsReply {
		snippet := ""
		for _, m := range i.result.Matches {
			if m.Field == "reply" {
				snippet = m.Text
				break
			}
		}
		return lipgloss.NewStyle().
			Foreground(MutedColor).
			Render(truncateEnd(firstLine(snippet), 60) + " • reply in #" + i.result.Thread.Number)
	}
	return lipgloss.NewStyle().
		Foreground(MutedColor).
		Render("#" + i.result.Thread.Number + " • " + i.result.Thread.Keyword + " • " + i.result.Thread.Author)
}

func (i searchResultItem) FilterValue() string {
	return i.result.Thread.Title
}
