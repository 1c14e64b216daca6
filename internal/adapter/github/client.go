// Package github delivers reports to a GitHub pull request: the aggregate
// document as an issue comment, inline findings as a pull request review.
package github

import (
	"context"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/changelint/changelint/internal/usecase/lint"
)

// PullRequestsService is the subset of the GitHub Pull Requests API the
// client needs. Narrowed for mocking in tests.
type PullRequestsService interface {
	CreateReview(ctx context.Context, owner, repo string, number int, review *gogithub.PullRequestReviewRequest) (*gogithub.PullRequestReview, *gogithub.Response, error)
}

// IssuesService is the subset of the GitHub Issues API the client needs.
type IssuesService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *gogithub.IssueComment) (*gogithub.IssueComment, *gogithub.Response, error)
}

// Target identifies the pull request reports are delivered to.
type Target struct {
	Owner     string
	Repo      string
	PRNumber  int
	CommitSHA string
}

// Client implements the lint.Delivery port against the GitHub API.
type Client struct {
	pulls  PullRequestsService
	issues IssuesService
	target Target
}

// NewClient constructs a client authenticated with the given token. An empty
// token falls back to unauthenticated access, which GitHub rejects for
// writes; it is accepted here so read-only smoke setups still construct.
func NewClient(ctx context.Context, token string, target Target) *Client {
	httpClient := http.DefaultClient
	if token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		))
	}
	gh := gogithub.NewClient(httpClient)
	return &Client{pulls: gh.PullRequests, issues: gh.Issues, target: target}
}

// NewClientWithServices constructs a client over explicit API services.
// Used by tests to substitute fakes.
func NewClientWithServices(pulls PullRequestsService, issues IssuesService, target Target) *Client {
	return &Client{pulls: pulls, issues: issues, target: target}
}

// SubmitAggregate posts the markdown report as a single PR comment.
func (c *Client) SubmitAggregate(ctx context.Context, markdown string) error {
	comment := &gogithub.IssueComment{Body: gogithub.Ptr(markdown)}
	if _, _, err := c.issues.CreateComment(ctx, c.target.Owner, c.target.Repo, c.target.PRNumber, comment); err != nil {
		return fmt.Errorf("create PR comment: %w", err)
	}
	return nil
}

// SubmitInline posts one review per comment batch. Warn-level batches use the
// COMMENT event; fail-level batches use REQUEST_CHANGES so errors block the
// review outcome.
func (c *Client) SubmitInline(ctx context.Context, comments []lint.InlineComment, level lint.Level) error {
	if len(comments) == 0 {
		return nil
	}

	event := "COMMENT"
	if level == lint.LevelFail {
		event = "REQUEST_CHANGES"
	}

	drafts := make([]*gogithub.DraftReviewComment, 0, len(comments))
	for _, comment := range comments {
		drafts = append(drafts, &gogithub.DraftReviewComment{
			Path: gogithub.Ptr(comment.File),
			Line: gogithub.Ptr(comment.Line),
			Side: gogithub.Ptr("RIGHT"),
			Body: gogithub.Ptr(comment.Message),
		})
	}

	review := &gogithub.PullRequestReviewRequest{
		CommitID: gogithub.Ptr(c.target.CommitSHA),
		Event:    gogithub.Ptr(event),
		Comments: drafts,
	}
	if _, _, err := c.pulls.CreateReview(ctx, c.target.Owner, c.target.Repo, c.target.PRNumber, review); err != nil {
		return fmt.Errorf("create PR review: %w", err)
	}
	return nil
}
