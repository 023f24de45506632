// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lawdb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enhancedFixture builds a small enhanced database: Chapter I with direct
// articles, Chapter II with a "General" section holding article 5.
func enhancedFixture() *Database {
	return &Database{
		Metadata: Metadata{Version: "1.0", LastUpdated: "2026-01-10", Enhanced: true},
		Chapters: []Chapter{
			{
				ChapterNumber: "I", ChapterTitle: "General Provisions",
				ID: "chap_I", NormalizedNumber: "1",
				Articles: []Article{
					{
						ArticleNumber: "1", Content: "This law governs data protection obligations.",
						ID: "chap_I_art_1", FullText: "This law governs data protection obligations.",
						Keywords: []string{"data", "protection"},
						Tags:     []string{"general provisions"},
					},
					{
						ArticleNumber: "2", Content: "Definitions of terms used in this law.",
						ID: "chap_I_art_2", FullText: "Definitions of terms used in this law.",
						Definitions:     map[string]string{"controller": "the entity determining processing purposes"},
						Keywords:        []string{"definitions"},
						RelatedArticles: []string{"chap_II_art_5", "chap_missing_art_9"},
					},
				},
			},
			{
				ChapterNumber: "II", ChapterTitle: "Obligations",
				ID: "chap_II", NormalizedNumber: "2",
				Sections: []Section{
					{
						SectionNumber: "1", SectionTitle: "General",
						ID: "chap_II_sec_1",
						Articles: []Article{
							{
								ArticleNumber: "5", Content: "Processing requires a lawful basis.",
								ID: "chap_II_art_5", FullText: "Processing requires a lawful basis.",
								Keywords:     []string{"processing", "consent"},
								Tags:         []string{"obligations"},
								Prohibitions: []string{"Processing without a lawful basis."},
								Punishments:  []string{"Fine up to 2% of turnover."},

								PunishmentNaturalPerson: "Fine up to 10,000.",
								PunishmentLegalPerson:   "Fine up to 2% of annual turnover.",
							},
						},
					},
				},
			},
		},
	}
}

func plainFixture() *Database {
	db := enhancedFixture()
	db.Metadata.Enhanced = false
	return db
}

// --- resolution ---

func TestResolveDirectArticle(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	ref, ok := ix.Resolve("What does chapter I article 2 say?")
	require.True(t, ok)
	assert.Equal(t, "2", ref.Article.ArticleNumber)
	assert.Equal(t, "I", ref.Chapter.ChapterNumber)
	assert.Nil(t, ref.Section)
}

func TestResolveArticleUnderSection(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	// Chapter I has no article 5; the one under Chapter II's General
	// section must be found with its section context attached.
	ref, ok := ix.Resolve("chapter II article 5")
	require.True(t, ok)
	assert.Equal(t, "5", ref.Article.ArticleNumber)
	assert.Equal(t, "II", ref.Chapter.ChapterNumber)
	require.NotNil(t, ref.Section)
	assert.Equal(t, "General", ref.Section.SectionTitle)
}

func TestResolveArabicChapterReference(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	// Chapter numbers are Roman in the document but callers may cite
	// them in Arabic.
	ref, ok := ix.Resolve("chapter 2 article 5")
	require.True(t, ok)
	assert.Equal(t, "II", ref.Chapter.ChapterNumber)
}

func TestResolveArticleOnlyReference(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	// No chapter cited: every chapter is scanned in document order.
	// Chapter I has no article 5; the one under Chapter II's General
	// section resolves with both headers attached.
	ref, ok := ix.Resolve("Article 5")
	require.True(t, ok)
	assert.Equal(t, "5", ref.Article.ArticleNumber)
	assert.Equal(t, "II", ref.Chapter.ChapterNumber)
	require.NotNil(t, ref.Section)
	assert.Equal(t, "General", ref.Section.SectionTitle)
}

func TestResolveArticleOnlyPrefersDocumentOrder(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	// Article 2 exists only in Chapter I, but an uncited chapter never
	// narrows the scan; the first match in document order wins.
	ref, ok := ix.Resolve("what does article 2 say")
	require.True(t, ok)
	assert.Equal(t, "I", ref.Chapter.ChapterNumber)
}

func TestResolveNeedsArticleReference(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	_, ok := ix.Resolve("chapter II in general")
	assert.False(t, ok, "chapter reference alone must not resolve")

	_, ok = ix.Resolve("what are the obligations")
	assert.False(t, ok)
}

func TestResolveMissReportsNotFound(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	_, ok := ix.Resolve("chapter I article 99")
	assert.False(t, ok)
}

func TestResolveRelatedDropsUnknownIDs(t *testing.T) {
	ix := NewIndex(enhancedFixture())

	ref, ok := ix.Resolve("chapter I article 2")
	require.True(t, ok)
	// chap_missing_art_9 resolves to nothing and is dropped silently.
	require.Len(t, ref.Related, 1)
	assert.Equal(t, "5", ref.Related[0].Article.ArticleNumber)
}

func TestResolvePlainSchemaHasNoRelated(t *testing.T) {
	ix := NewIndex(plainFixture())

	ref, ok := ix.Resolve("chapter I article 2")
	require.True(t, ok)
	assert.Empty(t, ref.Related)
}

// --- loader ---

func writeFixtureFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidDatabase(t *testing.T) {
	path := writeFixtureFile(t, "penal_code", `{
		"metadata": {"version": "1.0", "last_updated": "2026-01-10", "enhanced": false},
		"chapters": [
			{"chapter_number": "I", "chapter_title": "General",
			 "articles": [{"article_number": "1", "content": "Scope."}]}
		]
	}`)

	db, err := Load(path, "penal_code")
	require.NoError(t, err)
	assert.False(t, db.Metadata.Enhanced)
	assert.Len(t, db.Chapters, 1)
}

func TestLoadRejectsChapterWithoutDivisions(t *testing.T) {
	path := writeFixtureFile(t, "broken", `{
		"metadata": {"enhanced": false},
		"chapters": [{"chapter_number": "I", "chapter_title": "Empty"}]
	}`)

	_, err := Load(path, "broken")
	var malformed *ErrMalformed
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "broken", malformed.Name)
}

func TestLoadRejectsEnhancedFlagWithoutIDs(t *testing.T) {
	// metadata.enhanced promises enhanced fields everywhere; a tree that
	// lacks them is malformed, not silently degraded.
	path := writeFixtureFile(t, "half_enhanced", `{
		"metadata": {"enhanced": true},
		"chapters": [
			{"chapter_number": "I", "chapter_title": "General", "id": "chap_I",
			 "articles": [{"article_number": "1", "content": "Scope."}]}
		]
	}`)

	_, err := Load(path, "half_enhanced")
	var malformed *ErrMalformed
	require.ErrorAs(t, err, &malformed)
}

func TestLoadRejectsUnparseableJSON(t *testing.T) {
	path := writeFixtureFile(t, "garbled", `{"metadata": `)

	_, err := Load(path, "garbled")
	var malformed *ErrMalformed
	require.ErrorAs(t, err, &malformed)
}

// --- formatting ---

func TestFormatReferenceIncludesHeadersAndBody(t *testing.T) {
	ix := NewIndex(enhancedFixture())
	ref, ok := ix.Resolve("chapter II article 5")
	require.True(t, ok)

	text := FormatReference(ref)
	assert.Contains(t, text, "Chapter II — Obligations")
	assert.Contains(t, text, "Section 1 — General")
	assert.Contains(t, text, "Article 5")
	assert.Contains(t, text, "Processing requires a lawful basis.")
	assert.Contains(t, text, "Prohibitions:")
	assert.Contains(t, text, "Punishment (natural person): Fine up to 10,000.")
	assert.Contains(t, text, "Punishment (legal person): Fine up to 2% of annual turnover.")
}

func TestFormatReferenceRelatedBlock(t *testing.T) {
	ix := NewIndex(enhancedFixture())
	ref, ok := ix.Resolve("chapter I article 2")
	require.True(t, ok)

	text := FormatReference(ref)
	assert.Contains(t, text, "Related Articles:")
	assert.Contains(t, text, "Article 5")
	assert.Contains(t, text, "Section 1 — General")
}

func TestFormatResultsSeparatesWithBlankLine(t *testing.T) {
	ix := NewIndex(enhancedFixture())
	results := ix.Search("data protection processing")
	require.NotEmpty(t, results)

	text := FormatResults(results)
	if len(results) > 1 {
		assert.True(t, strings.Contains(text, "\n\n"))
	}
	assert.Contains(t, text, "Article")
}
