package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/kako/internal/archive"
)

type bleveEngine struct {
	threads []*archive.Thread
	byID    map[string]*archive.Thread
	idx     bleve.Index
}

// NewBleveEngine builds a memory-only Bleve index over the collection.
// The archive never changes after load, so the index is built once and
// never updated; nothing is written to disk.
func NewBleveEngine(threads []*archive.Thread) (Searcher, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	be := &bleveEngine{
		threads: threads,
		byID:    make(map[string]*archive.Thread, len(threads)),
		idx:     idx,
	}
	if err := be.indexAll(); err != nil {
		return nil, fmt.Errorf("indexing archive: %w", err)
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = standard.Name
	keyword.Store = true

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name
	author.Store = true

	body := bleve.NewTextFieldMapping()
	body.Analyzer = standard.Name
	body.Store = true

	threadNumber := bleve.NewTextFieldMapping()
	threadNumber.Analyzer = standard.Name
	threadNumber.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("keyword", keyword)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("body", body)
	dm.AddFieldMappingsAt("thread_number", threadNumber)

	im.DefaultMapping = dm
	return im
}

func (b *bleveEngine) indexAll() error {
	batch := b.idx.NewBatch()
	for _, t := range b.threads {
		b.byID[t.Number] = t
		_ = batch.Index(docIDForThread(t.Number), map[string]any{
			"type":          "thread",
			"thread_number": t.Number,
			"title":         t.Title,
			"keyword":       t.Keyword,
			"author":        t.Author,
		})
		for i, r := range t.Replies {
			_ = batch.Index(docIDForReply(t.Number, i), map[string]any{
				"type":          "reply",
				"thread_number": t.Number,
				"author":        r.User,
				"body":          r.Body,
			})
		}
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	// OR of per-term matches across key fields with boosts
	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qk := bleve.NewMatchQuery(tok)
		qk.SetField("keyword")
		qk.SetBoost(2.0)
		qs = append(qs, qk)

		qa := bleve.NewMatchQuery(tok)
		qa.SetField("author")
		qa.SetBoost(1.5)
		qs = append(qs, qa)

		qb := bleve.NewMatchQuery(tok)
		qb.SetField("body")
		qb.SetBoost(1.0)
		qs = append(qs, qb)
		qbp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qbp.SetField("body")
		qbp.SetBoost(0.8)
		qs = append(qs, qbp)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	srch.Fields = []string{"thread_number", "title", "body"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		number, _ := h.Fields["thread_number"].(string)
		t, ok := b.byID[number]
		if !ok {
			continue
		}
		r := &Result{Thread: t, Score: h.Score}
		if idx, isReply := replyIndexFromDocID(h.ID, number); isReply {
			r.IsReply = true
			r.ReplyIndex = idx
			if body, ok := h.Fields["body"].(string); ok {
				r.Matches = append(r.Matches, Match{Field: "reply", Text: truncate(body, 200)})
			}
		} else if title, ok := h.Fields["title"].(string); ok {
			r.Matches = append(r.Matches, Match{Field: "title", Text: title})
		}
		out = append(out, r)
	}
	return out, nil
}

// SearchInThread scores locally without touching the global index, to keep
// the implementation light.
func (b *bleveEngine) SearchInThread(thread *archive.Thread, query string) ([]*Result, error) {
	return NewEngine(b.threads).SearchInThread(thread, query)
}

// DocCount reports the number of indexed documents.
func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func docIDForThread(number string) string { return "thread:" + number }

func docIDForReply(number string, idx int) string {
	return fmt.Sprintf("reply:%s:%d", number, idx)
}

func replyIndexFromDocID(id, number string) (int, bool) {
	prefix := "reply:" + number + ":"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	var idx int
	if _, err := fmt.Sscanf(strings.TrimPrefix(id, prefix), "%d", &idx); err != nil {
		return 0, false
	}
	return idx, true
}
