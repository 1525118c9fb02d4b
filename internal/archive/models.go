package archive

// Reply is a single message within a thread. User may be empty in the
// source data; presentation substitutes "Anonymous" at render time.
type Reply struct {
	User   string `json:"user,omitempty"`
	UserID string `json:"user_id"`
	Time   string `json:"time"`
	Body   string `json:"reply"`
}

// Thread is one discussion unit from the archive. Number is the identity
// key; the archive is assumed (not enforced) to keep it unique. Replies
// are kept in document order, which is display order.
type Thread struct {
	Number  string  `json:"thread_number"`
	Title   string  `json:"post_title"`
	Keyword string  `json:"keyword"`
	Author  string  `json:"username"`
	Replies []Reply `json:"replies"`
}

// Collection is the archive loaded wholesale. It is never mutated after
// load; filtering returns subsets of Threads without touching it.
type Collection struct {
	Threads  []*Thread
	Keywords []string
}

// DistinctKeywords returns the distinct keyword values in first-seen
// order, for populating filter options.
func DistinctKeywords(threads []*Thread) []string {
	seen := make(map[string]struct{}, len(threads))
	var out []string
	for _, t := range threads {
		if t.Keyword == "" {
			continue
		}
		if _, ok := seen[t.Keyword]; ok {
			continue
		}
		seen[t.Keyword] = struct{}{}
		out = append(out, t.Keyword)
	}
	return out
}
