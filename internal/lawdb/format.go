// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lawdb

import (
	"fmt"
	"sort"
	"strings"
)

// FormatReference renders an exact lookup result: chapter header, section
// header when present, the article body, and a Related Articles block for
// enhanced databases.
func FormatReference(ref Reference) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Chapter %s — %s\n", ref.Chapter.ChapterNumber, ref.Chapter.ChapterTitle)
	if ref.Section != nil {
		fmt.Fprintf(&b, "Section %s — %s\n", ref.Section.SectionNumber, ref.Section.SectionTitle)
	}
	b.WriteString("\n")
	writeArticle(&b, ref.Article)

	if len(ref.Related) > 0 {
		b.WriteString("\nRelated Articles:\n")
		for _, rel := range ref.Related {
			loc := fmt.Sprintf("Chapter %s — %s", rel.Chapter.ChapterNumber, rel.Chapter.ChapterTitle)
			if rel.Section != nil {
				loc += fmt.Sprintf(", Section %s — %s", rel.Section.SectionNumber, rel.Section.SectionTitle)
			}
			fmt.Fprintf(&b, "- Article %s (%s)\n", rel.Article.ArticleNumber, loc)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatResults renders scored search results joined by blank lines.
func FormatResults(results []Scored) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "Chapter %s — %s", r.Chapter.ChapterNumber, r.Chapter.ChapterTitle)
		if r.Section != nil {
			fmt.Fprintf(&b, ", Section %s — %s", r.Section.SectionNumber, r.Section.SectionTitle)
		}
		b.WriteString("\n")
		writeArticle(&b, r.Article)
		parts = append(parts, strings.TrimRight(b.String(), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// writeArticle renders one article body. List-valued fields appear in a
// fixed order: points, definitions, prohibitions, conditions, punishments,
// then the per-person punishment lines.
func writeArticle(b *strings.Builder, a *Article) {
	fmt.Fprintf(b, "Article %s\n%s\n", a.ArticleNumber, a.Content)

	writeList(b, "Points", a.Points)

	if len(a.Definitions) > 0 {
		b.WriteString("Definitions:\n")
		terms := make([]string, 0, len(a.Definitions))
		for term := range a.Definitions {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			fmt.Fprintf(b, "- %s: %s\n", term, a.Definitions[term])
		}
	}

	writeList(b, "Prohibitions", a.Prohibitions)
	writeList(b, "Conditions", a.Conditions)
	writeList(b, "Punishments", a.Punishments)

	if a.PunishmentNaturalPerson != "" {
		fmt.Fprintf(b, "Punishment (natural person): %s\n", a.PunishmentNaturalPerson)
	}
	if a.PunishmentLegalPerson != "" {
		fmt.Fprintf(b, "Punishment (legal person): %s\n", a.PunishmentLegalPerson)
	}
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
