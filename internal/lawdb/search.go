// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lawdb

import (
	"sort"
	"strings"
)

// maxSearchResults caps scored search output.
const maxSearchResults = 5

// Canonical scoring weights. The enhanced path scores keywords and tags on
// top of full-text matches; both paths apply the chapter/section title
// bonuses to every article under the matching division. Keywords score per
// exact match, so a term repeated across keywords counts each time; the
// tag bonus applies at most once per term no matter how many tags it hits.
const (
	fullTextWeight     = 1
	keywordWeight      = 3
	tagWeight          = 2
	chapterTitleWeight = 3
	sectionTitleWeight = 2
)

// stopWords is the fixed set filtered from enhanced-schema queries. The
// plain path keeps every term to preserve the original search behavior.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"how": true, "why": true, "does": true, "can": true, "this": true,
	"that": true, "with": true, "from": true, "about": true, "under": true,
	"law": true, "legal": true, "article": true, "chapter": true,
}

// Scored is one scored search result with its document context.
type Scored struct {
	Hit
	Score int
}

// Index answers exact reference lookups and scored searches for one loaded
// database. Each schema has its own implementation; NewIndex selects by the
// metadata enhanced flag, never by probing fields.
type Index interface {
	// Resolve detects an explicit chapter/article reference in the query
	// and performs exact lookup. ok is false when the query carries no
	// complete reference or the reference matches nothing.
	Resolve(query string) (Reference, bool)

	// Search ranks all articles against the query terms, highest score
	// first, document order preserved among ties, at most five results.
	// An empty slice is the distinguished no-results outcome.
	Search(query string) []Scored
}

// NewIndex builds the Index variant matching the database schema.
func NewIndex(db *Database) Index {
	if db.Metadata.Enhanced {
		return &enhancedIndex{db: db}
	}
	return &plainIndex{db: db}
}

// --- enhanced schema ---

type enhancedIndex struct {
	db *Database
}

func (ix *enhancedIndex) Resolve(query string) (Reference, bool) {
	chapterRef, articleRef, ok := extractRefs(query)
	if !ok {
		return Reference{}, false
	}
	hit, ok := resolve(ix.db, chapterRef, articleRef)
	if !ok {
		return Reference{}, false
	}
	return Reference{Hit: hit, Related: resolveRelated(ix.db, hit.Article)}, true
}

func (ix *enhancedIndex) Search(query string) []Scored {
	terms := filterTerms(tokenize(query))
	return rank(ix.db, terms, ix.scoreArticle)
}

func (ix *enhancedIndex) scoreArticle(h Hit, terms []string) int {
	score := 0
	fullText := strings.ToLower(h.Article.FullText)
	for _, term := range terms {
		if strings.Contains(fullText, term) {
			score += fullTextWeight
		}
		for _, kw := range h.Article.Keywords {
			if strings.ToLower(kw) == term {
				score += keywordWeight
			}
		}
		for _, tag := range h.Article.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += tagWeight
				break
			}
		}
	}
	score += titleBonus(h, terms)
	return score
}

// --- plain schema ---

type plainIndex struct {
	db *Database
}

func (ix *plainIndex) Resolve(query string) (Reference, bool) {
	chapterRef, articleRef, ok := extractRefs(query)
	if !ok {
		return Reference{}, false
	}
	hit, ok := resolve(ix.db, chapterRef, articleRef)
	if !ok {
		return Reference{}, false
	}
	// The plain schema has no related-article links to follow.
	return Reference{Hit: hit}, true
}

func (ix *plainIndex) Search(query string) []Scored {
	// The plain path searches every term; only the enhanced schema
	// filters stop words.
	return rank(ix.db, tokenize(query), ix.scoreArticle)
}

func (ix *plainIndex) scoreArticle(h Hit, terms []string) int {
	score := 0
	content := strings.ToLower(h.Article.Content)
	for _, term := range terms {
		if strings.Contains(content, term) {
			score += fullTextWeight
		}
	}
	score += titleBonus(h, terms)
	return score
}

// --- shared scoring machinery ---

// tokenize lowercases and splits a query on whitespace.
func tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// filterTerms drops stop words and very short terms before enhanced scoring.
func filterTerms(terms []string) []string {
	var kept []string
	for _, t := range terms {
		if len(t) <= 2 || stopWords[t] {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// titleBonus adds the flat chapter/section title bonuses for every query
// term found in the enclosing division titles.
func titleBonus(h Hit, terms []string) int {
	bonus := 0
	chapterTitle := strings.ToLower(h.Chapter.ChapterTitle)
	sectionTitle := ""
	if h.Section != nil {
		sectionTitle = strings.ToLower(h.Section.SectionTitle)
	}
	for _, term := range terms {
		if strings.Contains(chapterTitle, term) {
			bonus += chapterTitleWeight
		}
		if sectionTitle != "" && strings.Contains(sectionTitle, term) {
			bonus += sectionTitleWeight
		}
	}
	return bonus
}

// rank scores every article, keeps positive scores, sorts descending with
// document order preserved among equals, and truncates to the result cap.
func rank(db *Database, terms []string, score func(Hit, []string) int) []Scored {
	if len(terms) == 0 {
		return nil
	}

	var results []Scored
	for _, h := range db.flatten() {
		if s := score(h, terms); s > 0 {
			results = append(results, Scored{Hit: h, Score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}
