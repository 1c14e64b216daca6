package domain

import (
	"regexp"
	"strings"
)

// ShortHashLength is the truncated commit identifier length used for
// attribution. Blame output and commit-set entries are compared at this
// prefix length.
const ShortHashLength = 8

// CommitSet is the ordered set of commits considered "under review".
// Entries are stored truncated to ShortHashLength; order follows the input.
type CommitSet struct {
	hashes []string
}

// NewCommitSet builds a CommitSet from full or already-truncated hashes,
// deduplicating while preserving input order.
func NewCommitSet(hashes []string) CommitSet {
	seen := make(map[string]bool, len(hashes))
	short := make([]string, 0, len(hashes))
	for _, h := range hashes {
		h = truncate(strings.TrimSpace(h))
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		short = append(short, h)
	}
	return CommitSet{hashes: short}
}

// Empty reports whether the set holds no commits.
func (c CommitSet) Empty() bool {
	return len(c.hashes) == 0
}

// Hashes returns the truncated hashes in input order.
func (c CommitSet) Hashes() []string {
	out := make([]string, len(c.hashes))
	copy(out, c.hashes)
	return out
}

// Contains reports whether the commit (full or truncated hash) is in the set.
func (c CommitSet) Contains(commit string) bool {
	commit = truncate(commit)
	for _, h := range c.hashes {
		if h == commit {
			return true
		}
	}
	return false
}

// AlternationPattern returns an anchored regex alternation of the truncated
// hashes, suitable for filtering blame output line by line. Returns "" for an
// empty set; callers must treat that as "match nothing".
func (c CommitSet) AlternationPattern() string {
	if len(c.hashes) == 0 {
		return ""
	}
	quoted := make([]string, len(c.hashes))
	for i, h := range c.hashes {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return "^(" + strings.Join(quoted, "|") + ")"
}

func truncate(hash string) string {
	if len(hash) > ShortHashLength {
		return hash[:ShortHashLength]
	}
	return hash
}
