package lint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/changelint/changelint/internal/domain"
)

// Analyzer defines the outbound port for invoking the external linter.
type Analyzer interface {
	Analyze(ctx context.Context, file, extraArgs string) (string, error)
}

// BlameEngine defines the outbound port for per-line commit attribution.
type BlameEngine interface {
	CommitsBetween(ctx context.Context, baseRef, targetRef string) (domain.CommitSet, error)
	OwnedLines(ctx context.Context, file string, commits domain.CommitSet) ([]int, error)
}

// Level is the annotation level an inline comment is delivered at. Fail-level
// comments must be able to block the review outcome.
type Level string

const (
	LevelWarn Level = "warn"
	LevelFail Level = "fail"
)

// InlineComment is a single review comment anchored at a source location.
type InlineComment struct {
	Message string
	File    string
	Line    int
}

// Delivery defines the outbound port for the review surface.
type Delivery interface {
	SubmitAggregate(ctx context.Context, markdown string) error
	SubmitInline(ctx context.Context, comments []InlineComment, level Level) error
}

// FindingParser decodes one file's raw analyzer output, returning the
// findings, the count of records dropped for unknown severity, and an error
// when the document itself is malformed.
type FindingParser func(raw string) ([]domain.Finding, int, error)

// ReportBuilder renders the severity buckets into an aggregate markdown
// document. An empty string means there is nothing to report.
type ReportBuilder func(buckets domain.Buckets) string

// Store defines the optional outbound port for run history persistence.
type Store interface {
	CreateRun(ctx context.Context, run StoreRun) error
	SaveFindings(ctx context.Context, runID string, findings []domain.Finding) error
	Close() error
}

// StoreRun represents a lint run for persistence.
type StoreRun struct {
	RunID      string
	Timestamp  time.Time
	BaseRef    string
	TargetRef  string
	Repository string
	Files      int
	Retained   int
}

// Logger defines optional structured logging for the orchestrator.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// OrchestratorDeps captures the collaborators for the lint pipeline.
type OrchestratorDeps struct {
	Analyzer Analyzer
	Blame    BlameEngine
	Delivery Delivery
	Parser   FindingParser
	Report   ReportBuilder
	Store    Store  // Optional: persistence for run history
	Logger   Logger // Optional: structured warnings and info
}

// Request represents an inbound lint invocation.
type Request struct {
	Files     []string
	Inline    bool
	BaseRef   string
	TargetRef string
	BaseDir   string // base path stripped from file paths in inline mode
	ExtraArgs string // pre-encoded analyzer options, passed through opaquely
	Workers   int    // max concurrent analyzer invocations; <=1 means serial
	RunID     string // optional identity for the history store
}

// Result captures the orchestrator outcome.
type Result struct {
	Buckets      domain.Buckets
	FilesSkipped int // files whose analysis or parse failed
	Dropped      int // records dropped for unknown severity
	Submitted    bool
}

// Orchestrator implements the attribution-and-filtering pipeline: invoke the
// analyzer per file, parse its output, keep findings overlapping lines owned
// by the commits under review, bucket by severity, and deliver the report.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator wires the orchestrator dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) validateDependencies() error {
	if o.deps.Analyzer == nil {
		return errors.New("analyzer is required")
	}
	if o.deps.Blame == nil {
		return errors.New("blame engine is required")
	}
	if o.deps.Delivery == nil {
		return errors.New("delivery surface is required")
	}
	if o.deps.Parser == nil {
		return errors.New("finding parser is required")
	}
	if o.deps.Report == nil {
		return errors.New("report builder is required")
	}
	// Store is optional
	// Logger is optional
	return nil
}

// Run executes the pipeline for one invocation. Per-file analyzer and parse
// failures are isolated: they are logged and that file contributes no
// findings. The only fatal errors are resolving the commit range and
// submitting the final report.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	if err := o.validateDependencies(); err != nil {
		return Result{}, err
	}

	commits, err := o.deps.Blame.CommitsBetween(ctx, req.BaseRef, req.TargetRef)
	if err != nil {
		return Result{}, fmt.Errorf("resolve commit range: %w", err)
	}
	if commits.Empty() {
		o.logInfo(ctx, "no commits under review", map[string]interface{}{
			"base":   req.BaseRef,
			"target": req.TargetRef,
		})
	}

	perFile, skipped, dropped := o.analyzeFiles(ctx, req, commits)
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	var all []domain.Finding
	for _, findings := range perFile {
		all = append(all, findings...)
	}
	buckets := classify(all)

	o.persistRun(ctx, req, buckets, all)

	submitted, err := o.report(ctx, req, buckets)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Buckets:      buckets,
		FilesSkipped: skipped,
		Dropped:      dropped,
		Submitted:    submitted,
	}, nil
}

// analyzeFiles fans the per-file pipeline out across a bounded worker pool
// and fans results back in keyed by input position, so concatenation keeps
// the caller's file order.
func (o *Orchestrator) analyzeFiles(ctx context.Context, req Request, commits domain.CommitSet) ([][]domain.Finding, int, int) {
	perFile := make([][]domain.Finding, len(req.Files))
	skipped := make([]bool, len(req.Files))
	droppedPer := make([]int, len(req.Files))

	workers := req.Workers
	if workers < 1 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, file := range req.Files {
		group.Go(func() error {
			findings, dropped, ok := o.analyzeFile(groupCtx, file, req.ExtraArgs, commits)
			perFile[i] = findings
			droppedPer[i] = dropped
			skipped[i] = !ok
			return groupCtx.Err()
		})
	}
	// Per-file failures never surface here; the only group error is context
	// cancellation, which the caller checks.
	_ = group.Wait()

	skippedCount := 0
	droppedCount := 0
	for i := range req.Files {
		if skipped[i] {
			skippedCount++
		}
		droppedCount += droppedPer[i]
	}
	return perFile, skippedCount, droppedCount
}

// analyzeFile runs invoke → parse → attribute for a single file. The bool
// result is false when the file's analysis or parse failed.
func (o *Orchestrator) analyzeFile(ctx context.Context, file, extraArgs string, commits domain.CommitSet) ([]domain.Finding, int, bool) {
	raw, err := o.deps.Analyzer.Analyze(ctx, file, extraArgs)
	if err != nil {
		o.logWarning(ctx, "analyzer failed, treating file as clean", map[string]interface{}{
			"file":  file,
			"error": err.Error(),
		})
		return nil, 0, false
	}
	if strings.TrimSpace(raw) == "" {
		return nil, 0, true
	}

	findings, dropped, err := o.deps.Parser(raw)
	if err != nil {
		o.logWarning(ctx, "unparseable analyzer output, skipping file", map[string]interface{}{
			"file":  file,
			"error": err.Error(),
		})
		return nil, 0, false
	}
	if dropped > 0 {
		o.logWarning(ctx, "dropped findings with unknown severity", map[string]interface{}{
			"file":    file,
			"dropped": dropped,
		})
	}
	if len(findings) == 0 {
		return nil, dropped, true
	}

	owned, err := o.deps.Blame.OwnedLines(ctx, file, commits)
	if err != nil {
		o.logWarning(ctx, "blame lookup failed, skipping file", map[string]interface{}{
			"file":  file,
			"error": err.Error(),
		})
		return nil, dropped, false
	}
	return attributeFindings(findings, owned), dropped, true
}

func (o *Orchestrator) report(ctx context.Context, req Request, buckets domain.Buckets) (bool, error) {
	if req.Inline {
		return o.reportInline(ctx, req, buckets)
	}

	markdown := o.deps.Report(buckets)
	if markdown == "" {
		return false, nil
	}
	if err := o.deps.Delivery.SubmitAggregate(ctx, markdown); err != nil {
		return false, fmt.Errorf("submit aggregate report: %w", err)
	}
	return true, nil
}

// reportInline submits each bucket once: suggestions and warnings at warn
// level, errors at fail level so they can block the review outcome.
func (o *Orchestrator) reportInline(ctx context.Context, req Request, buckets domain.Buckets) (bool, error) {
	submitted := false
	batches := []struct {
		findings []domain.Finding
		level    Level
	}{
		{buckets.Suggestions, LevelWarn},
		{buckets.Warnings, LevelWarn},
		{buckets.Errors, LevelFail},
	}
	for _, batch := range batches {
		if len(batch.findings) == 0 {
			continue
		}
		comments := make([]InlineComment, 0, len(batch.findings))
		for _, f := range batch.findings {
			comments = append(comments, InlineComment{
				Message: inlineMessage(f),
				File:    relativePath(req.BaseDir, f.File),
				Line:    f.StartLine,
			})
		}
		if err := o.deps.Delivery.SubmitInline(ctx, comments, batch.level); err != nil {
			return submitted, fmt.Errorf("submit inline comments: %w", err)
		}
		submitted = true
	}
	return submitted, nil
}

// inlineMessage formats one finding for inline delivery: the hint, then a
// severity-dependent label introducing the suggested replacement.
func inlineMessage(f domain.Finding) string {
	label := "Why Not"
	if f.Severity == domain.SeverityError {
		label = "Error description"
	}
	if f.To == "" {
		return f.Hint
	}
	return fmt.Sprintf("%s\n%s:\n```haskell\n%s\n```", f.Hint, label, f.To)
}

// relativePath strips the base directory prefix from a file path. The base is
// an explicit parameter rather than the process working directory so the
// pipeline stays independent of ambient state.
func relativePath(baseDir, file string) string {
	if baseDir == "" {
		return file
	}
	rel, err := filepath.Rel(baseDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

func (o *Orchestrator) persistRun(ctx context.Context, req Request, buckets domain.Buckets, findings []domain.Finding) {
	if o.deps.Store == nil {
		return
	}
	runID := req.RunID
	if runID == "" {
		runID = generateRunID(time.Now(), req.BaseRef, req.TargetRef)
	}
	run := StoreRun{
		RunID:     runID,
		Timestamp: time.Now(),
		BaseRef:   req.BaseRef,
		TargetRef: req.TargetRef,
		Files:     len(req.Files),
		Retained:  buckets.Total(),
	}
	if err := o.deps.Store.CreateRun(ctx, run); err != nil {
		o.logWarning(ctx, "failed to record run", map[string]interface{}{
			"runID": runID,
			"error": err.Error(),
		})
		return
	}
	if err := o.deps.Store.SaveFindings(ctx, runID, findings); err != nil {
		o.logWarning(ctx, "failed to record findings", map[string]interface{}{
			"runID": runID,
			"error": err.Error(),
		})
	}
}

func generateRunID(now time.Time, baseRef, targetRef string) string {
	return fmt.Sprintf("%s_%s_%d", sanitizeRef(baseRef), sanitizeRef(targetRef), now.UnixNano())
}

func sanitizeRef(ref string) string {
	return strings.ReplaceAll(ref, "/", "-")
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
	}
}
