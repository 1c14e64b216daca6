package lint

import "github.com/changelint/changelint/internal/domain"

// classify partitions findings into the three severity buckets. It is a pure
// function of each finding's severity; severity is a closed enum, so every
// finding lands in exactly one bucket.
func classify(findings []domain.Finding) domain.Buckets {
	var buckets domain.Buckets
	for _, f := range findings {
		switch f.Severity {
		case domain.SeveritySuggestion:
			buckets.Suggestions = append(buckets.Suggestions, f)
		case domain.SeverityWarning:
			buckets.Warnings = append(buckets.Warnings, f)
		case domain.SeverityError:
			buckets.Errors = append(buckets.Errors, f)
		}
	}
	return buckets
}
