package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/kako/internal/archive"
)

// Result represents a search match with relevance scoring. ReplyIndex is
// valid only when IsReply is set.
type Result struct {
	Thread     *archive.Thread
	ReplyIndex int
	IsReply    bool
	Score      float64
	Matches    []Match
}

// Match represents where text was found.
type Match struct {
	Field  string // "title", "keyword", "author", "reply"
	Text   string // matched text snippet
	Weight float64
}

// Engine provides ranked search over the loaded collection without any
// indexing. The collection is read-only after load, so the engine holds a
// plain slice.
type Engine struct {
	threads []*archive.Thread
}

// NewEngine creates a ranked search engine over the collection.
func NewEngine(threads []*archive.Thread) *Engine {
	return &Engine{threads: threads}
}

// Search scores every thread and its replies against the query and returns
// the best matches, highest score first.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	var results []*Result
	for _, t := range e.threads {
		if result := e.searchThread(t, terms); result != nil {
			results = append(results, result)
		}
		for i := range t.Replies {
			if result := e.searchReply(t, i, terms); result != nil {
				results = append(results, result)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SearchInThread restricts scoring to a single thread's replies.
func (e *Engine) SearchInThread(thread *archive.Thread, query string) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 || thread == nil {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	var results []*Result
	for i := range thread.Replies {
		if result := e.searchReply(thread, i, terms); result != nil {
			results = append(results, result)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// searchThread scores the thread's own fields.
func (e *Engine) searchThread(t *archive.Thread, terms []string) *Result {
	var matches []Match
	var totalScore float64

	if titleScore := scoreField(t.Title, terms, 4.0); titleScore > 0 {
		matches = append(matches, Match{Field: "title", Text: t.Title, Weight: titleScore})
		totalScore += titleScore
	}
	if kwScore := scoreField(t.Keyword, terms, 2.0); kwScore > 0 {
		matches = append(matches, Match{Field: "keyword", Text: t.Keyword, Weight: kwScore})
		totalScore += kwScore
	}
	if authorScore := scoreField(t.Author, terms, 1.5); authorScore > 0 {
		matches = append(matches, Match{Field: "author", Text: t.Author, Weight: authorScore})
		totalScore += authorScore
	}

	if totalScore > 0 {
		return &Result{Thread: t, Score: totalScore, Matches: matches}
	}
	return nil
}

// searchReply scores a single reply's body and user.
func (e *Engine) searchReply(t *archive.Thread, idx int, terms []string) *Result {
	r := t.Replies[idx]

	var matches []Match
	var totalScore float64

	if bodyScore := scoreField(r.Body, terms, 1.0); bodyScore > 0 {
		snippet := findBestSnippet(r.Body, terms, 200)
		matches = append(matches, Match{Field: "reply", Text: snippet, Weight: bodyScore})
		totalScore += bodyScore
	}
	if userScore := scoreField(r.User, terms, 0.5); userScore > 0 {
		matches = append(matches, Match{Field: "reply", Text: r.User, Weight: userScore})
		totalScore += userScore
	}

	if totalScore > 0 {
		return &Result{Thread: t, ReplyIndex: idx, IsReply: true, Score: totalScore, Matches: matches}
	}
	return nil
}

// scoreField calculates relevance score for a field.
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		termLower := strings.ToLower(term)

		if strings.Contains(lower, termLower) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			wordLower := strings.ToLower(word)
			switch {
			case wordLower == termLower:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(wordLower, termLower) || strings.HasSuffix(wordLower, termLower):
				score += 1.0
				matchedTerms++
			case strings.Contains(wordLower, termLower):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	if len(words) > 0 {
		tf := float64(matchedTerms) / float64(len(words))
		score *= 1.0 + math.Log(1.0+tf)
	}

	return score * weight
}

// findBestSnippet finds the most relevant text snippet containing the
// search terms, using a sliding word window.
func findBestSnippet(text string, terms []string, maxLength int) string {
	if text == "" {
		return ""
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	bestScore := 0.0
	bestStart := 0
	windowSize := maxLength / 8

	if windowSize > len(words) {
		return truncate(text, maxLength)
	}

	for i := 0; i <= len(words)-windowSize; i++ {
		windowText := strings.ToLower(strings.Join(words[i:i+windowSize], " "))
		score := 0.0
		for _, term := range terms {
			if strings.Contains(windowText, strings.ToLower(term)) {
				score += 1.0
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	snippet := strings.Join(words[bestStart:bestStart+windowSize], " ")
	return truncate(snippet, maxLength)
}

// tokenize breaks text into searchable terms. CJK text has no word
// boundaries, so ideographs are emitted as single-rune terms; latin runs
// shorter than two characters are skipped.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	flush := func() {
		if term := current.String(); len([]rune(term)) > 1 {
			terms = append(terms, term)
		}
		current.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana):
			flush()
			terms = append(terms, string(r))
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			current.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()

	return terms
}

// truncate limits text length with ellipsis.
func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-1]) + "…"
}
