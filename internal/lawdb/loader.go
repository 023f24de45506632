// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lawdb

import (
	"encoding/json"
	"fmt"
	"os"
)

// ErrMalformed marks a database whose structure violates the model
// invariants. Malformed databases are excluded from the configured set at
// load time rather than crashing the process.
type ErrMalformed struct {
	Name   string
	Reason string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed database %s: %s", e.Name, e.Reason)
}

// Load reads and validates one database file. The returned Database is
// fully materialized and safe to share between goroutines.
func Load(path, name string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading database %s: %w", name, err)
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, &ErrMalformed{Name: name, Reason: fmt.Sprintf("parse error: %v", err)}
	}

	if err := validate(&db, name); err != nil {
		return nil, err
	}
	return &db, nil
}

// validate checks the structural invariants of a database tree.
func validate(db *Database, name string) error {
	if len(db.Chapters) == 0 {
		return &ErrMalformed{Name: name, Reason: "no chapters"}
	}

	for i, ch := range db.Chapters {
		hasArticles := len(ch.Articles) > 0
		hasSections := len(ch.Sections) > 0

		// Exactly one of articles/sections per chapter.
		if hasArticles == hasSections {
			return &ErrMalformed{
				Name: name,
				Reason: fmt.Sprintf("chapter %q (index %d) must hold either articles or sections",
					ch.ChapterNumber, i),
			}
		}

		if ch.ChapterNumber == "" {
			return &ErrMalformed{Name: name, Reason: fmt.Sprintf("chapter at index %d has no number", i)}
		}

		if db.Metadata.Enhanced {
			if err := validateEnhancedChapter(&db.Chapters[i]); err != nil {
				return &ErrMalformed{Name: name, Reason: err.Error()}
			}
		}
	}
	return nil
}

// validateEnhancedChapter checks that a chapter in an enhanced database
// actually carries the enhanced fields the flag promises.
func validateEnhancedChapter(ch *Chapter) error {
	if ch.ID == "" {
		return fmt.Errorf("enhanced chapter %q missing id", ch.ChapterNumber)
	}
	for _, a := range ch.Articles {
		if a.ID == "" {
			return fmt.Errorf("enhanced article %q in chapter %q missing id", a.ArticleNumber, ch.ChapterNumber)
		}
	}
	for _, sec := range ch.Sections {
		for _, a := range sec.Articles {
			if a.ID == "" {
				return fmt.Errorf("enhanced article %q in section %q missing id", a.ArticleNumber, sec.SectionNumber)
			}
		}
	}
	return nil
}
