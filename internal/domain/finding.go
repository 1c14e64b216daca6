package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Severity classifies a finding reported by the external analyzer.
// The set is closed: hlint only emits the three kinds below, and anything
// else is rejected at parse time so findings cannot silently vanish between
// classification buckets.
type Severity string

const (
	SeveritySuggestion Severity = "Suggestion"
	SeverityWarning    Severity = "Warning"
	SeverityError      Severity = "Error"
)

// ParseSeverity maps the analyzer's severity string onto the closed enum.
func ParseSeverity(value string) (Severity, error) {
	switch Severity(value) {
	case SeveritySuggestion, SeverityWarning, SeverityError:
		return Severity(value), nil
	default:
		return "", fmt.Errorf("unknown severity %q", value)
	}
}

// Finding represents a single issue detected by the analyzer.
type Finding struct {
	File      string
	Severity  Severity
	Hint      string
	StartLine int
	EndLine   int
	From      string
	To        string // empty when the analyzer offers no replacement
}

// Covers reports whether line falls inside the finding's inclusive span.
// A finding with StartLine > EndLine is an empty interval and covers nothing.
func (f Finding) Covers(line int) bool {
	return line >= f.StartLine && line <= f.EndLine
}

// Fingerprint returns a deterministic identity for the finding, used by the
// run history store to correlate findings across runs.
func (f Finding) Fingerprint() string {
	payload := fmt.Sprintf("%s|%d|%d|%s|%s",
		f.File,
		f.StartLine,
		f.EndLine,
		f.Severity,
		f.Hint,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Buckets groups attributed findings by severity for reporting.
type Buckets struct {
	Suggestions []Finding
	Warnings    []Finding
	Errors      []Finding
}

// Empty reports whether no bucket holds a finding.
func (b Buckets) Empty() bool {
	return len(b.Suggestions) == 0 && len(b.Warnings) == 0 && len(b.Errors) == 0
}

// Total returns the number of findings across all buckets.
func (b Buckets) Total() int {
	return len(b.Suggestions) + len(b.Warnings) + len(b.Errors)
}
