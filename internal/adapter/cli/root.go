// Package cli wires the cobra command surface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ErrFindingsBlock indicates error-severity findings were reported; the
// process should exit non-zero so CI treats the run as failed.
var ErrFindingsBlock = errors.New("error-severity findings reported")

// GitHubTarget identifies the pull request to deliver reports to.
type GitHubTarget struct {
	Owner     string
	Repo      string
	PRNumber  int
	CommitSHA string
}

// LintRequest is the inbound request assembled from flags and arguments.
type LintRequest struct {
	Files     []string
	Inline    bool
	BaseRef   string
	TargetRef string
	Workers   int
	GitHub    GitHubTarget
}

// Summary reports the outcome of a lint run.
type Summary struct {
	Suggestions  int
	Warnings     int
	Errors       int
	FilesSkipped int
	Submitted    bool
}

// Linter defines the dependency required to run the lint command.
type Linter interface {
	Lint(ctx context.Context, req LintRequest) (Summary, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Linter         Linter
	Args           Arguments
	DefaultInline  bool
	DefaultWorkers int
	DefaultGitHub  GitHubTarget
	Version        string
}

// NewRootCommand constructs the root cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "changelint",
		Short: "Attribute linter findings to changed lines and report them",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(lintCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func lintCommand(deps Dependencies) *cobra.Command {
	var inline bool
	var baseRef string
	var targetRef string
	var workers int
	var githubOwner string
	var githubRepo string
	var prNumber int
	var commitSHA string

	cmd := &cobra.Command{
		Use:   "lint [files...]",
		Short: "Lint files and report findings on changed lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := GitHubTarget{
				Owner:     resolveString(githubOwner, deps.DefaultGitHub.Owner),
				Repo:      resolveString(githubRepo, deps.DefaultGitHub.Repo),
				PRNumber:  resolveInt(prNumber, deps.DefaultGitHub.PRNumber),
				CommitSHA: resolveString(commitSHA, deps.DefaultGitHub.CommitSHA),
			}
			if target.PRNumber > 0 {
				if target.Owner == "" || target.Repo == "" {
					return fmt.Errorf("--github-owner and --github-repo are required when a PR number is set")
				}
				if inline && target.CommitSHA == "" {
					return fmt.Errorf("--commit-sha is required for inline delivery to a PR")
				}
			}

			summary, err := deps.Linter.Lint(cmd.Context(), LintRequest{
				Files:     args,
				Inline:    inline,
				BaseRef:   baseRef,
				TargetRef: targetRef,
				Workers:   workers,
				GitHub:    target,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"%d suggestion(s), %d warning(s), %d error(s) on changed lines (%d file(s) skipped)\n",
				summary.Suggestions, summary.Warnings, summary.Errors, summary.FilesSkipped)
			if summary.Errors > 0 {
				return ErrFindingsBlock
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", deps.DefaultInline, "Deliver one comment per finding instead of an aggregate report")
	cmd.Flags().StringVar(&baseRef, "base", "main", "Base reference; commits after it are under review")
	cmd.Flags().StringVar(&targetRef, "target", "HEAD", "Target reference under review")
	cmd.Flags().IntVar(&workers, "workers", deps.DefaultWorkers, "Max concurrent analyzer invocations")
	cmd.Flags().StringVar(&githubOwner, "github-owner", "", "GitHub repository owner")
	cmd.Flags().StringVar(&githubRepo, "github-repo", "", "GitHub repository name")
	cmd.Flags().IntVar(&prNumber, "pr-number", 0, "Pull request number to deliver reports to")
	cmd.Flags().StringVar(&commitSHA, "commit-sha", "", "Head commit SHA for inline reviews")

	return cmd
}

func resolveString(override, defaultValue string) string {
	if override != "" {
		return override
	}
	return defaultValue
}

func resolveInt(override, defaultValue int) int {
	if override != 0 {
		return override
	}
	return defaultValue
}
