package search

import "github.com/pders01/kako/internal/archive"

// Searcher defines the minimal ranked-search API used by the TUI. It
// complements, never replaces, the exact filter predicate in
// internal/filter.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
	SearchInThread(thread *archive.Thread, query string) ([]*Result, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts.
type DebugStatser interface {
	DocCount() (int, error)
}
