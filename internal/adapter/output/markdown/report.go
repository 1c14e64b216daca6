// Package markdown renders attributed findings into the aggregate report
// document.
package markdown

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/changelint/changelint/internal/domain"
)

// Builder renders severity buckets as one markdown document with a table
// section per non-empty bucket.
type Builder struct {
	legacySuggestions bool
}

// NewBuilder constructs a report builder.
//
// legacySuggestions reproduces the historical rendering in which the
// "Suggestions" section iterated the warnings bucket and the suggestions
// bucket was never shown. It exists so configurations depending on the old
// output can keep it; the default is the corrected rendering.
func NewBuilder(legacySuggestions bool) *Builder {
	return &Builder{legacySuggestions: legacySuggestions}
}

// Build returns the aggregate markdown report, or "" when every bucket is
// empty (nothing is emitted in that case).
func (b *Builder) Build(buckets domain.Buckets) string {
	if buckets.Empty() {
		return ""
	}

	suggestions := buckets.Suggestions
	if b.legacySuggestions {
		suggestions = buckets.Warnings
	}

	caser := cases.Title(language.English)
	var builder strings.Builder
	writeSection(&builder, caser.String(string(domain.SeveritySuggestion))+"s", suggestions)
	writeSection(&builder, caser.String(string(domain.SeverityWarning))+"s", buckets.Warnings)
	writeSection(&builder, caser.String(string(domain.SeverityError))+"s", buckets.Errors)
	return strings.TrimRight(builder.String(), "\n") + "\n"
}

func writeSection(builder *strings.Builder, title string, findings []domain.Finding) {
	if len(findings) == 0 {
		return
	}
	builder.WriteString("## " + title + "\n\n")
	builder.WriteString("| File | Line | Hint | Found | Suggested |\n")
	builder.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, f := range findings {
		builder.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
			filepath.Base(f.File),
			f.StartLine,
			cell(f.Hint),
			cell(f.From),
			cell(f.To),
		))
	}
	builder.WriteString("\n")
}

// cell makes a snippet safe for a markdown table row: embedded newlines
// become explicit line breaks and pipes are escaped.
func cell(value string) string {
	value = strings.ReplaceAll(value, "|", `\|`)
	return strings.ReplaceAll(value, "\n", "<br>")
}
