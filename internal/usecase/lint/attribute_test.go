package lint

import (
	"testing"

	"github.com/changelint/changelint/internal/domain"
)

func TestAttributeFindingsOverlap(t *testing.T) {
	finding := domain.Finding{File: "A.hs", Severity: domain.SeverityWarning, StartLine: 10, EndLine: 12}

	kept := attributeFindings([]domain.Finding{finding}, []int{11})
	if len(kept) != 1 {
		t.Fatalf("span [10,12] with touched line 11 should be retained, got %d findings", len(kept))
	}

	kept = attributeFindings([]domain.Finding{finding}, []int{5, 20})
	if len(kept) != 0 {
		t.Fatalf("span [10,12] with touched lines {5,20} should be dropped, got %d findings", len(kept))
	}
}

func TestAttributeFindingsSingleLineExactMatch(t *testing.T) {
	finding := domain.Finding{StartLine: 5, EndLine: 5}

	kept := attributeFindings([]domain.Finding{finding}, []int{5})
	if len(kept) != 1 {
		t.Fatal("span [5,5] with touched line 5 should be retained")
	}
}

func TestAttributeFindingsEmptyIntervalNeverMatches(t *testing.T) {
	finding := domain.Finding{StartLine: 12, EndLine: 10}

	kept := attributeFindings([]domain.Finding{finding}, []int{10, 11, 12})
	if len(kept) != 0 {
		t.Fatal("inverted span should never match")
	}
}

func TestAttributeFindingsNoOwnedLines(t *testing.T) {
	findings := []domain.Finding{{StartLine: 1, EndLine: 100}}

	if kept := attributeFindings(findings, nil); len(kept) != 0 {
		t.Fatal("zero owned lines should retain zero findings")
	}
}

func TestAttributeFindingsPreservesOrder(t *testing.T) {
	findings := []domain.Finding{
		{Hint: "first", StartLine: 1, EndLine: 1},
		{Hint: "second", StartLine: 2, EndLine: 2},
		{Hint: "third", StartLine: 3, EndLine: 3},
	}

	kept := attributeFindings(findings, []int{3, 1})
	if len(kept) != 2 {
		t.Fatalf("expected 2 retained findings, got %d", len(kept))
	}
	if kept[0].Hint != "first" || kept[1].Hint != "third" {
		t.Fatalf("attribution reordered findings: %v", kept)
	}
}
