package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/changelint/changelint/internal/domain"
)

// Engine implements the BlameEngine port backed by go-git for commit
// resolution and the git CLI for per-line blame output.
type Engine struct {
	repoDir string
}

// NewEngine constructs a git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// CommitsBetween returns the commits reachable from targetRef but not from
// baseRef, newest first, as a CommitSet of truncated hashes. These are the
// commits considered "under review".
func (e *Engine) CommitsBetween(ctx context.Context, baseRef, targetRef string) (domain.CommitSet, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return domain.CommitSet{}, fmt.Errorf("open repo: %w", err)
	}

	baseCommit, err := resolveCommit(repo, baseRef)
	if err != nil {
		return domain.CommitSet{}, fmt.Errorf("resolve base ref: %w", err)
	}
	targetCommit, err := resolveCommit(repo, targetRef)
	if err != nil {
		return domain.CommitSet{}, fmt.Errorf("resolve target ref: %w", err)
	}

	iter, err := repo.Log(&goGit.LogOptions{From: targetCommit.Hash})
	if err != nil {
		return domain.CommitSet{}, fmt.Errorf("log %s: %w", targetRef, err)
	}
	defer iter.Close()

	var hashes []string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == baseCommit.Hash {
			return storer.ErrStop
		}
		hashes = append(hashes, c.Hash.String())
		return nil
	})
	if err != nil {
		return domain.CommitSet{}, fmt.Errorf("walk commits: %w", err)
	}
	return domain.NewCommitSet(hashes), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	name := head.Name()
	if name.IsBranch() {
		return name.Short(), nil
	}
	return "", fmt.Errorf("detached HEAD")
}

// OwnedLines returns the 1-based line numbers of file whose latest-modifying
// commit is in the supplied set. Blame output is filtered textually by the
// set's alternation pattern, matching each line's leading commit hash.
func (e *Engine) OwnedLines(ctx context.Context, file string, commits domain.CommitSet) ([]int, error) {
	pattern := commits.AlternationPattern()
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile commit pattern: %w", err)
	}

	out, err := runGitCommand(ctx, e.repoDir, "blame", "-l", "--", file)
	if err != nil {
		return nil, err
	}

	var owned []int
	for i, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		// Boundary commits are prefixed with '^' in blame output.
		line = strings.TrimPrefix(line, "^")
		if re.MatchString(line) {
			owned = append(owned, i+1)
		}
	}
	return owned, nil
}

func resolveCommit(repo *goGit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		fmt.Sprintf("refs/heads/%s", ref),
		fmt.Sprintf("refs/remotes/origin/%s", ref),
	}

	var lastErr error
	for _, candidate := range candidates {
		name := plumbing.Revision(candidate)
		hash, err := repo.ResolveRevision(name)
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("unable to resolve ref %s", ref)
}

func runGitCommand(ctx context.Context, repoDir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoDir}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %v: %w", args, ctx.Err())
		}
		if stderr.Len() > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %v: %w", args, err)
	}
	return stdout.String(), nil
}
