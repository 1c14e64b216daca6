package lint

import (
	"reflect"
	"testing"

	"github.com/changelint/changelint/internal/domain"
)

func TestClassifyPartitionsBySeverity(t *testing.T) {
	findings := []domain.Finding{
		{Hint: "a", Severity: domain.SeverityWarning},
		{Hint: "b", Severity: domain.SeveritySuggestion},
		{Hint: "c", Severity: domain.SeverityError},
		{Hint: "d", Severity: domain.SeverityWarning},
	}

	buckets := classify(findings)
	if len(buckets.Suggestions) != 1 || len(buckets.Warnings) != 2 || len(buckets.Errors) != 1 {
		t.Fatalf("unexpected partition: %d/%d/%d",
			len(buckets.Suggestions), len(buckets.Warnings), len(buckets.Errors))
	}
	if buckets.Warnings[0].Hint != "a" || buckets.Warnings[1].Hint != "d" {
		t.Fatal("classification must preserve order within a bucket")
	}
}

func TestClassifyIdempotentOnRemergedBuckets(t *testing.T) {
	findings := []domain.Finding{
		{Hint: "a", Severity: domain.SeveritySuggestion},
		{Hint: "b", Severity: domain.SeverityWarning},
		{Hint: "c", Severity: domain.SeverityError},
	}

	first := classify(findings)

	var remerged []domain.Finding
	remerged = append(remerged, first.Suggestions...)
	remerged = append(remerged, first.Warnings...)
	remerged = append(remerged, first.Errors...)

	second := classify(remerged)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reclassifying re-merged buckets changed the partition:\n%v\n%v", first, second)
	}
}
