package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/changelint/changelint/internal/adapter/analyzer/hlint"
	"github.com/changelint/changelint/internal/adapter/cli"
	"github.com/changelint/changelint/internal/adapter/console"
	gitadapter "github.com/changelint/changelint/internal/adapter/git"
	githubadapter "github.com/changelint/changelint/internal/adapter/github"
	"github.com/changelint/changelint/internal/adapter/observability"
	"github.com/changelint/changelint/internal/adapter/output/markdown"
	"github.com/changelint/changelint/internal/adapter/store/sqlite"
	"github.com/changelint/changelint/internal/config"
	"github.com/changelint/changelint/internal/usecase/lint"
	"github.com/changelint/changelint/internal/version"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, cli.ErrFindingsBlock) {
			os.Exit(1)
		}
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "changelint",
		EnvPrefix:   "CHANGELINT",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	app := &application{
		cfg:     cfg,
		repoDir: repoDir,
		logger:  buildLogger(cfg.Observability),
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Linter:         app,
		DefaultInline:  cfg.Report.Inline,
		DefaultWorkers: cfg.Analyzer.Workers,
		DefaultGitHub: cli.GitHubTarget{
			Owner:     cfg.GitHub.Owner,
			Repo:      cfg.GitHub.Repo,
			PRNumber:  cfg.GitHub.PRNumber,
			CommitSHA: cfg.GitHub.CommitSHA,
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		if errors.Is(err, cli.ErrFindingsBlock) {
			return err
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// application assembles the pipeline per invocation and implements cli.Linter.
type application struct {
	cfg     config.Config
	repoDir string
	logger  lint.Logger
}

// Lint builds the delivery surface for the request, wires the orchestrator,
// and runs the pipeline.
func (a *application) Lint(ctx context.Context, req cli.LintRequest) (cli.Summary, error) {
	analyzerTimeout := parseTimeout(a.cfg.Analyzer.Timeout)
	invoker := hlint.NewInvoker(a.cfg.Analyzer.Binary, analyzerTimeout)
	engine := gitadapter.NewEngine(a.repoDir)
	reportBuilder := markdown.NewBuilder(a.cfg.Report.LegacySuggestions)

	delivery := a.buildDelivery(ctx, req)

	var store lint.Store
	if a.cfg.Store.Enabled {
		storeDir := filepath.Dir(a.cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0o755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else if s, err := sqlite.NewStore(a.cfg.Store.Path); err != nil {
			log.Printf("warning: failed to initialize store: %v", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	orchestrator := lint.NewOrchestrator(lint.OrchestratorDeps{
		Analyzer: invoker,
		Blame:    engine,
		Delivery: delivery,
		Parser:   hlint.ParseFindings,
		Report:   reportBuilder.Build,
		Store:    store,
		Logger:   a.logger,
	})

	result, err := orchestrator.Run(ctx, lint.Request{
		Files:     req.Files,
		Inline:    req.Inline,
		BaseRef:   req.BaseRef,
		TargetRef: req.TargetRef,
		BaseDir:   a.repoDir,
		ExtraArgs: hlint.EncodeOptions(analyzerOptions(a.cfg.Analyzer)),
		Workers:   req.Workers,
	})
	if err != nil {
		return cli.Summary{}, err
	}

	return cli.Summary{
		Suggestions:  len(result.Buckets.Suggestions),
		Warnings:     len(result.Buckets.Warnings),
		Errors:       len(result.Buckets.Errors),
		FilesSkipped: result.FilesSkipped,
		Submitted:    result.Submitted,
	}, nil
}

// buildDelivery selects GitHub delivery when a PR is identified and a token
// is available; otherwise reports land on the console.
func (a *application) buildDelivery(ctx context.Context, req cli.LintRequest) lint.Delivery {
	token := os.Getenv("GITHUB_TOKEN")
	if req.GitHub.PRNumber > 0 && token != "" {
		return githubadapter.NewClient(ctx, token, githubadapter.Target{
			Owner:     req.GitHub.Owner,
			Repo:      req.GitHub.Repo,
			PRNumber:  req.GitHub.PRNumber,
			CommitSHA: req.GitHub.CommitSHA,
		})
	}
	if req.GitHub.PRNumber > 0 {
		log.Println("GITHUB_TOKEN not set, falling back to console delivery")
	}
	return console.NewDelivery()
}

// analyzerOptions converts configured options to the encoder's ordered form.
// The json option is not configurable: the invoker always requests JSON
// output so the parser has structured input.
func analyzerOptions(cfg config.AnalyzerConfig) []hlint.Option {
	opts := make([]hlint.Option, 0, len(cfg.Options))
	for _, o := range cfg.Options {
		opts = append(opts, hlint.Option{Name: o.Name, Value: o.Value})
	}
	return opts
}

func parseTimeout(value string) time.Duration {
	if value == "" {
		return hlint.DefaultTimeout
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("warning: invalid analyzer timeout %q, using default", value)
		return hlint.DefaultTimeout
	}
	return parsed
}

func buildLogger(cfg config.ObservabilityConfig) lint.Logger {
	if !cfg.Logging.Enabled {
		return nil
	}

	level := observability.LogLevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = observability.LogLevelDebug
	case "error":
		level = observability.LogLevelError
	}

	format := observability.LogFormatHuman
	if cfg.Logging.Format == "json" {
		format = observability.LogFormatJSON
	}

	return observability.NewLogger(level, format)
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "changelint"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ lint.Analyzer = (*hlint.Invoker)(nil)
var _ lint.BlameEngine = (*gitadapter.Engine)(nil)
var _ lint.Delivery = (*githubadapter.Client)(nil)
var _ lint.Delivery = (*console.Delivery)(nil)
var _ lint.Store = (*sqlite.Store)(nil)
var _ lint.Logger = (*observability.Logger)(nil)
var _ cli.Linter = (*application)(nil)
