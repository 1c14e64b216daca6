package hlint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single hlint invocation. The analyzer is a local
// process but a pathological input file should not hang the whole run.
const DefaultTimeout = 60 * time.Second

// Invoker runs the hlint binary once per input file.
type Invoker struct {
	binary  string
	timeout time.Duration
}

// NewInvoker constructs an Invoker for the given binary name or path.
// A non-positive timeout falls back to DefaultTimeout.
func NewInvoker(binary string, timeout time.Duration) *Invoker {
	if binary == "" {
		binary = "hlint"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{binary: binary, timeout: timeout}
}

// Analyze runs the analyzer over a single file with the pre-encoded extra
// arguments, returning raw JSON from stdout. Stderr is discarded. A non-zero
// exit is returned as an error; callers treat it as "no findings" for that
// file rather than failing the run.
func (i *Invoker) Analyze(ctx context.Context, file, extraArgs string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmdline := strings.TrimSpace(fmt.Sprintf("%s --json %s %s", i.binary, ShellQuote(file), extraArgs))
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdline)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s %s: %w", i.binary, file, ctx.Err())
		}
		// hlint exits 1 when it has ideas to report; that is not a failure
		// as long as it produced output.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 && stdout.Len() > 0 {
			return stdout.String(), nil
		}
		return "", fmt.Errorf("%s %s: %w", i.binary, file, err)
	}
	return stdout.String(), nil
}

// ShellQuote wraps a path in single quotes for the shell, escaping any
// embedded single quotes.
func ShellQuote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
