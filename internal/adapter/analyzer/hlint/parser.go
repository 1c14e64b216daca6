package hlint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/changelint/changelint/internal/domain"
)

// idea mirrors one element of hlint's --json output. Fields the pipeline does
// not use (module, decl, columns, notes, refactorings) are decoded and
// ignored; absent fields are tolerated and left at their zero values.
type idea struct {
	Module    []string `json:"module"`
	Decl      []string `json:"decl"`
	Severity  string   `json:"severity"`
	Hint      string   `json:"hint"`
	File      string   `json:"file"`
	StartLine int      `json:"startLine"`
	StartCol  int      `json:"startColumn"`
	EndLine   int      `json:"endLine"`
	EndCol    int      `json:"endColumn"`
	From      string   `json:"from"`
	To        *string  `json:"to"`
	Note      []string `json:"note"`
}

// ParseFindings decodes one file's raw analyzer output into a flat sequence
// of findings. Records with a severity outside the known enum are dropped;
// the count of dropped records is returned so callers can surface a
// diagnostic. A malformed document returns an error; callers isolate it to
// the file that produced it.
func ParseFindings(raw string) ([]domain.Finding, int, error) {
	var ideas []idea
	if err := json.Unmarshal([]byte(raw), &ideas); err != nil {
		return nil, 0, fmt.Errorf("decode analyzer output: %w", err)
	}

	findings := make([]domain.Finding, 0, len(ideas))
	dropped := 0
	for _, id := range ideas {
		severity, err := domain.ParseSeverity(id.Severity)
		if err != nil {
			dropped++
			continue
		}
		to := ""
		if id.To != nil {
			to = *id.To
		}
		findings = append(findings, domain.Finding{
			File:      strings.TrimSpace(id.File),
			Severity:  severity,
			Hint:      id.Hint,
			StartLine: id.StartLine,
			EndLine:   id.EndLine,
			From:      id.From,
			To:        to,
		})
	}
	return findings, dropped, nil
}
