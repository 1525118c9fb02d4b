// Package filter implements the in-memory predicate applied to the loaded
// thread collection: free-text search, keyword-chip selection, and a reply
// date range, combined with logical AND.
package filter

import (
	"strings"
	"time"

	"github.com/pders01/kako/internal/archive"
)

// State is the current filter combination. The zero value matches every
// thread. It is replaced wholesale on apply and cleared on reset.
type State struct {
	Query    string
	Keywords map[string]struct{}
	Start    *time.Time
	End      *time.Time
}

// Active reports whether any criterion is set.
func (s State) Active() bool {
	return s.Query != "" || len(s.Keywords) > 0 || s.rangeActive()
}

// rangeActive requires both bounds; a half-open range is ignored.
func (s State) rangeActive() bool {
	return s.Start != nil && s.End != nil
}

// WithKeywords is a convenience constructor for the keyword set.
func WithKeywords(keywords ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return set
}

// DayRange normalizes calendar dates into an inclusive instant range:
// the start keeps 00:00:00, the end is pushed to the last representable
// moment of its day so the whole end date is included.
func DayRange(start, end time.Time) (time.Time, time.Time) {
	lo := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	hi := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)
	return lo, hi
}

// Result is the outcome of one evaluation. Unparsable counts replies whose
// timestamps failed to parse while a date range was active, as a
// data-quality signal; it is zero when no range is set.
type Result struct {
	Threads    []*archive.Thread
	Unparsable int
}

// Apply filters threads against s, preserving relative order and never
// mutating the input.
func Apply(threads []*archive.Thread, s State) []*archive.Thread {
	return Evaluate(threads, s).Threads
}

// Evaluate is Apply plus diagnostics.
func Evaluate(threads []*archive.Thread, s State) Result {
	res := Result{Threads: make([]*archive.Thread, 0, len(threads))}
	query := strings.ToLower(s.Query)

	for _, t := range threads {
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		if len(s.Keywords) > 0 {
			if _, ok := s.Keywords[t.Keyword]; !ok {
				continue
			}
		}
		if s.rangeActive() {
			ok, failed := matchesRange(t, *s.Start, *s.End)
			res.Unparsable += failed
			if !ok {
				continue
			}
		}
		res.Threads = append(res.Threads, t)
	}
	return res
}

// matchesQuery checks a lowercased query against title, keyword, author,
// and every reply's body and user. Absent fields are empty strings and
// simply never match.
func matchesQuery(t *archive.Thread, query string) bool {
	if containsFold(t.Title, query) ||
		containsFold(t.Keyword, query) ||
		containsFold(t.Author, query) {
		return true
	}
	for _, r := range t.Replies {
		if containsFold(r.Body, query) || containsFold(r.User, query) {
			return true
		}
	}
	return false
}

// matchesRange reports whether any reply instant falls in [lo, hi], plus
// the number of replies whose timestamps did not parse. A thread with no
// replies, or only unparsable ones, fails the range.
func matchesRange(t *archive.Thread, lo, hi time.Time) (bool, int) {
	failed := 0
	matched := false
	for _, r := range t.Replies {
		instant, ok := r.Instant()
		if !ok {
			failed++
			continue
		}
		if !instant.Before(lo) && !instant.After(hi) {
			matched = true
		}
	}
	return matched, failed
}

// containsFold reports whether substr is a case-insensitive substring of s.
// substr must already be lowercased.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
