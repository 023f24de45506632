// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lawdb

import (
	"regexp"

	"github.com/pdiddy/counsel-engine/internal/numeral"
)

// chapterRefPattern and articleRefPattern detect explicit references in raw
// query text ("chapter IV", "Article 12").
var (
	chapterRefPattern = regexp.MustCompile(`(?i)chapter\s*([IVX\d]+)`)
	articleRefPattern = regexp.MustCompile(`(?i)article\s*(\d+)`)
)

// Reference is a resolved exact lookup: the article, its chapter/section
// context, and any resolved related articles for display.
type Reference struct {
	Hit
	Related []Hit
}

// extractRefs pulls the chapter and article numbers out of a query. The
// article reference anchors the lookup; the chapter reference is optional
// and empty when absent. Chapter numbers may be Roman or Arabic; article
// numbers are always decimal in source data.
func extractRefs(query string) (chapter, article string, ok bool) {
	am := articleRefPattern.FindStringSubmatch(query)
	if am == nil {
		return "", "", false
	}
	if cm := chapterRefPattern.FindStringSubmatch(query); cm != nil {
		chapter = cm[1]
	}
	return chapter, am[1], true
}

// resolve performs the exact article lookup shared by both schema variants.
// An empty chapterRef scans every chapter in document order; otherwise the
// chapter number is compared through numeral normalization. Article numbers
// are already-canonical decimal strings and compare exactly. The first
// match in document order wins.
func resolve(db *Database, chapterRef, articleRef string) (Hit, bool) {
	for ci := range db.Chapters {
		ch := &db.Chapters[ci]
		if chapterRef != "" && !numeral.Equal(ch.ChapterNumber, chapterRef) {
			continue
		}
		for ai := range ch.Articles {
			if ch.Articles[ai].ArticleNumber == articleRef {
				return Hit{Article: &ch.Articles[ai], Chapter: ch}, true
			}
		}
		for si := range ch.Sections {
			sec := &ch.Sections[si]
			for ai := range sec.Articles {
				if sec.Articles[ai].ArticleNumber == articleRef {
					return Hit{Article: &sec.Articles[ai], Chapter: ch, Section: sec}, true
				}
			}
		}
	}
	return Hit{}, false
}

// resolveRelated maps an enhanced article's related IDs to Hits against the
// flattened article list. IDs that resolve to nothing are silently dropped.
func resolveRelated(db *Database, article *Article) []Hit {
	if len(article.RelatedArticles) == 0 {
		return nil
	}

	byID := make(map[string]Hit)
	for _, h := range db.flatten() {
		if h.Article.ID != "" {
			byID[h.Article.ID] = h
		}
	}

	var related []Hit
	for _, id := range article.RelatedArticles {
		if h, ok := byID[id]; ok {
			related = append(related, h)
		}
	}
	return related
}
