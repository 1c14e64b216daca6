package lint

import "github.com/changelint/changelint/internal/domain"

// attributeFindings keeps the findings whose inclusive line span overlaps at
// least one owned line. Attribution is a filter: input order is preserved and
// findings are never modified. A file with no owned lines yields no findings.
func attributeFindings(findings []domain.Finding, ownedLines []int) []domain.Finding {
	if len(findings) == 0 || len(ownedLines) == 0 {
		return nil
	}
	kept := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		for _, line := range ownedLines {
			if f.Covers(line) {
				kept = append(kept, f)
				break
			}
		}
	}
	return kept
}
