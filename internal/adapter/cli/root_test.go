package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLinter struct {
	req     LintRequest
	summary Summary
	err     error
	called  bool
}

func (f *fakeLinter) Lint(ctx context.Context, req LintRequest) (Summary, error) {
	f.called = true
	f.req = req
	return f.summary, f.err
}

func execute(t *testing.T, deps Dependencies, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	deps.Args = Arguments{OutWriter: &out, ErrWriter: &out}
	root := NewRootCommand(deps)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, Dependencies{Linter: &fakeLinter{}, Version: "v1.2.3"}, "--version")
	assert.ErrorIs(t, err, ErrVersionRequested)
	assert.Contains(t, out, "v1.2.3")
}

func TestVersionFlagDefaultsWhenUnset(t *testing.T) {
	out, err := execute(t, Dependencies{Linter: &fakeLinter{}}, "-v")
	assert.ErrorIs(t, err, ErrVersionRequested)
	assert.Contains(t, out, "v0.0.0")
}

func TestLintRequiresAtLeastOneFile(t *testing.T) {
	linter := &fakeLinter{}
	_, err := execute(t, Dependencies{Linter: linter}, "lint")
	assert.Error(t, err)
	assert.False(t, linter.called)
}

func TestLintPassesFlagsThrough(t *testing.T) {
	linter := &fakeLinter{summary: Summary{Warnings: 2}}
	out, err := execute(t, Dependencies{Linter: linter},
		"lint", "--inline", "--base", "develop", "--target", "feature", "--workers", "3",
		"--github-owner", "octocat", "--github-repo", "hello",
		"--pr-number", "42", "--commit-sha", "abc123",
		"src/A.hs", "src/B.hs")
	require.NoError(t, err)

	assert.Equal(t, []string{"src/A.hs", "src/B.hs"}, linter.req.Files)
	assert.True(t, linter.req.Inline)
	assert.Equal(t, "develop", linter.req.BaseRef)
	assert.Equal(t, "feature", linter.req.TargetRef)
	assert.Equal(t, 3, linter.req.Workers)
	assert.Equal(t, GitHubTarget{
		Owner:     "octocat",
		Repo:      "hello",
		PRNumber:  42,
		CommitSHA: "abc123",
	}, linter.req.GitHub)
	assert.Contains(t, out, "2 warning(s)")
}

func TestLintDefaultRefs(t *testing.T) {
	linter := &fakeLinter{}
	_, err := execute(t, Dependencies{Linter: linter}, "lint", "A.hs")
	require.NoError(t, err)
	assert.Equal(t, "main", linter.req.BaseRef)
	assert.Equal(t, "HEAD", linter.req.TargetRef)
}

func TestLintUsesConfiguredGitHubDefaults(t *testing.T) {
	linter := &fakeLinter{}
	deps := Dependencies{
		Linter: linter,
		DefaultGitHub: GitHubTarget{
			Owner: "octocat", Repo: "hello", PRNumber: 7, CommitSHA: "def456",
		},
	}
	_, err := execute(t, deps, "lint", "A.hs")
	require.NoError(t, err)
	assert.Equal(t, 7, linter.req.GitHub.PRNumber)
	assert.Equal(t, "def456", linter.req.GitHub.CommitSHA)
}

func TestLintPRNumberRequiresOwnerAndRepo(t *testing.T) {
	linter := &fakeLinter{}
	_, err := execute(t, Dependencies{Linter: linter}, "lint", "--pr-number", "42", "A.hs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--github-owner")
	assert.False(t, linter.called)
}

func TestLintInlinePRRequiresCommitSHA(t *testing.T) {
	linter := &fakeLinter{}
	_, err := execute(t, Dependencies{Linter: linter},
		"lint", "--inline", "--pr-number", "42",
		"--github-owner", "octocat", "--github-repo", "hello", "A.hs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--commit-sha")
	assert.False(t, linter.called)
}

func TestLintBlocksOnErrorFindings(t *testing.T) {
	linter := &fakeLinter{summary: Summary{Errors: 1}}
	out, err := execute(t, Dependencies{Linter: linter}, "lint", "A.hs")
	assert.ErrorIs(t, err, ErrFindingsBlock)
	assert.Contains(t, out, "1 error(s)")
}

func TestLintPropagatesLinterError(t *testing.T) {
	wantErr := errors.New("analyzer not found")
	linter := &fakeLinter{err: wantErr}
	_, err := execute(t, Dependencies{Linter: linter}, "lint", "A.hs")
	assert.ErrorIs(t, err, wantErr)
}
