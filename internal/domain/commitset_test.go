package domain_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/changelint/changelint/internal/domain"
)

func TestNewCommitSetTruncatesAndDeduplicates(t *testing.T) {
	set := domain.NewCommitSet([]string{
		"abc12345ffffffffffffffffffffffffffffffff",
		"abc12345",
		"def67890aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"  ",
	})

	want := []string{"abc12345", "def67890"}
	if !reflect.DeepEqual(set.Hashes(), want) {
		t.Fatalf("Hashes() = %v, want %v", set.Hashes(), want)
	}
}

func TestCommitSetContainsByPrefix(t *testing.T) {
	set := domain.NewCommitSet([]string{"abc12345"})

	if !set.Contains("abc12345ffffffffffffffffffffffffffffffff") {
		t.Fatal("expected full hash with matching prefix to be contained")
	}
	if set.Contains("def67890") {
		t.Fatal("unexpected membership for unrelated hash")
	}
}

func TestCommitSetAlternationPattern(t *testing.T) {
	set := domain.NewCommitSet([]string{"abc12345", "def67890"})

	pattern := set.AlternationPattern()
	if pattern != "^(abc12345|def67890)" {
		t.Fatalf("AlternationPattern() = %q", pattern)
	}

	re := regexp.MustCompile(pattern)
	if !re.MatchString("abc12345ffffffff (author) line content") {
		t.Fatal("pattern should match a blame line starting with a set hash")
	}
	if re.MatchString("0abc12345 not at line start") {
		t.Fatal("pattern must anchor at line start")
	}
}

func TestEmptyCommitSet(t *testing.T) {
	set := domain.NewCommitSet(nil)
	if !set.Empty() {
		t.Fatal("expected empty set")
	}
	if set.AlternationPattern() != "" {
		t.Fatalf("empty set pattern = %q, want empty", set.AlternationPattern())
	}
}
