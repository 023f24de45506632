// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lawdb models hierarchical law databases (chapters, optional
// sections, articles) and provides exact reference resolution and scored
// keyword search over them. A database comes in two schemas: the plain
// schema as published, and the enhanced schema produced by the enrichment
// tooling with stable IDs, keywords, tags, and cross-references. The
// metadata `enhanced` flag selects which search path runs; field presence
// is never probed to guess the schema.
package lawdb

// Article is a single article within a chapter or section. Enhanced-only
// fields are populated only when the owning database's metadata marks it
// enhanced.
type Article struct {
	ArticleNumber string            `json:"article_number"`
	Content       string            `json:"content"`
	Points        []string          `json:"points,omitempty"`
	Definitions   map[string]string `json:"definitions,omitempty"`
	Prohibitions  []string          `json:"prohibitions,omitempty"`
	Conditions    []string          `json:"conditions,omitempty"`
	Punishments   []string          `json:"punishments,omitempty"`

	PunishmentNaturalPerson string `json:"punishment_natural_person,omitempty"`
	PunishmentLegalPerson   string `json:"punishment_legal_person,omitempty"`

	// Enhanced schema fields. IDs follow the enrichment tooling's scheme:
	// chap_<n>_art_<m>, unique within a database.
	ID               string   `json:"id,omitempty"`
	NormalizedNumber string   `json:"normalizedNumber,omitempty"`
	FullText         string   `json:"fullText,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	RelatedArticles  []string `json:"relatedArticles,omitempty"`
	ChapterRef       string   `json:"chapterRef,omitempty"`
	ChapterTitle     string   `json:"chapterTitle,omitempty"`
	SectionRef       string   `json:"sectionRef,omitempty"`
	SectionTitle     string   `json:"sectionTitle,omitempty"`
}

// Section groups articles under a titled subdivision of a chapter.
type Section struct {
	SectionNumber string    `json:"section_number"`
	SectionTitle  string    `json:"section_title"`
	Articles      []Article `json:"articles"`

	// Enhanced schema fields.
	ID               string   `json:"id,omitempty"`
	NormalizedNumber string   `json:"normalizedNumber,omitempty"`
	SearchTerms      []string `json:"searchTerms,omitempty"`
}

// Chapter is a top-level division. Exactly one of Articles and Sections is
// populated in a well-formed database.
type Chapter struct {
	ChapterNumber string    `json:"chapter_number"`
	ChapterTitle  string    `json:"chapter_title"`
	Articles      []Article `json:"articles,omitempty"`
	Sections      []Section `json:"sections,omitempty"`

	// Enhanced schema fields.
	ID               string   `json:"id,omitempty"`
	NormalizedNumber string   `json:"normalizedNumber,omitempty"`
	SearchTerms      []string `json:"searchTerms,omitempty"`
}

// Metadata describes a database file. Enhanced is authoritative: true iff
// every chapter and article in the tree carries the enhanced fields.
type Metadata struct {
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"`
	Enhanced    bool   `json:"enhanced"`
}

// Database is a fully materialized law database. Instances are immutable
// once loaded; unlimited concurrent readers are safe.
type Database struct {
	Metadata Metadata  `json:"metadata"`
	Chapters []Chapter `json:"chapters"`
}

// Hit locates an article together with its enclosing chapter and, when the
// article sits under one, its section.
type Hit struct {
	Article *Article
	Chapter *Chapter
	Section *Section
}

// flatten returns every article in document order, each wrapped in a Hit
// carrying its chapter/section context.
func (db *Database) flatten() []Hit {
	var hits []Hit
	for ci := range db.Chapters {
		ch := &db.Chapters[ci]
		for ai := range ch.Articles {
			hits = append(hits, Hit{Article: &ch.Articles[ai], Chapter: ch})
		}
		for si := range ch.Sections {
			sec := &ch.Sections[si]
			for ai := range sec.Articles {
				hits = append(hits, Hit{Article: &sec.Articles[ai], Chapter: ch, Section: sec})
			}
		}
	}
	return hits
}
