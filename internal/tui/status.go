package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgLoadingArchive = "Loading archive…"
	MsgNoResults      = "No results"
	MsgFiltersReset   = "Filters reset"
	MsgFiltersApplied = "Filters applied"
)

func MsgThreadCount(n int) string {
	if n == 1 {
		return "1 thread"
	}
	return fmt.Sprintf("%d threads", n)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgLoadedSummary(threads, keywords int) string {
	return fmt.Sprintf("Loaded %s • %d keywords", MsgThreadCount(threads), keywords)
}

func MsgFilterSummary(visible, total, unparsable int) string {
	base := fmt.Sprintf("Showing %d of %d threads", visible, total)
	if unparsable > 0 {
		base += fmt.Sprintf(" • %d unparsable timestamps", unparsable)
	}
	return base
}
